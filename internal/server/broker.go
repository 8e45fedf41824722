package server

import (
	"encoding/json"
	"sync"

	"github.com/blueye/globalsite/internal/metrics"
)

// ContentEvent announces that a published record changed.
type ContentEvent struct {
	Kind   string `json:"kind"`
	Action string `json:"action"`
	ID     string `json:"id"`
	Locale string `json:"locale"`
}

const (
	kindMagazine = "magazine"
	kindNotice   = "notice"
	kindBrief    = "brief"

	actionCreated = "created"
	actionUpdated = "updated"
)

// allLocales is the topic of subscribers that want every locale.
const allLocales = ""

// Broker is an in-process pub/sub for SSE events, keyed by locale.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for locale.
// An empty locale receives every event.
func (b *Broker) Subscribe(locale string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[locale] == nil {
		b.subs[locale] = make(map[chan []byte]struct{})
	}
	b.subs[locale][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the locale's subscribers.
func (b *Broker) Unsubscribe(locale string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[locale], ch)
	if len(b.subs[locale]) == 0 {
		delete(b.subs, locale)
	}
	b.mu.Unlock()
}

// Publish sends an event to the subscribers of its locale and to those of
// every locale.
func (b *Broker) Publish(event ContentEvent) {
	data, _ := json.Marshal(event)
	metrics.ContentEventsPublished.WithLabelValues(event.Kind).Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()
	topics := []string{allLocales}
	if event.Locale != allLocales {
		topics = append(topics, event.Locale)
	}
	for _, topic := range topics {
		for ch := range b.subs[topic] {
			select {
			case ch <- data:
			default:
				// Drop if subscriber is slow.
			}
		}
	}
}
