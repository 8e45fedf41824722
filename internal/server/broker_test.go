package server

import (
	"encoding/json"
	"testing"
)

func TestBrokerRoutesByLocale(t *testing.T) {
	b := NewBroker()
	en := b.Subscribe("en")
	all := b.Subscribe(allLocales)
	defer b.Unsubscribe("en", en)
	defer b.Unsubscribe(allLocales, all)

	b.Publish(ContentEvent{Kind: kindMagazine, Action: actionCreated, ID: "m1", Locale: "ko"})
	b.Publish(ContentEvent{Kind: kindNotice, Action: actionUpdated, ID: "n1", Locale: "en"})

	if got := len(en); got != 1 {
		t.Fatalf("en subscriber got %d events, want 1", got)
	}
	if got := len(all); got != 2 {
		t.Fatalf("all-locale subscriber got %d events, want 2", got)
	}

	var ev ContentEvent
	if err := json.Unmarshal(<-en, &ev); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if ev.ID != "n1" || ev.Kind != kindNotice {
		t.Errorf("en event = %+v", ev)
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("ko")
	defer b.Unsubscribe("ko", ch)

	for range cap(ch) + 5 {
		b.Publish(ContentEvent{Kind: kindBrief, Locale: "ko"})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d events, want %d", len(ch), cap(ch))
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("zh")
	b.Unsubscribe("zh", ch)

	b.Publish(ContentEvent{Kind: kindNotice, Locale: "zh"})
	if len(ch) != 0 {
		t.Error("unsubscribed channel received an event")
	}
	if len(b.subs) != 0 {
		t.Errorf("subs = %v, want empty", b.subs)
	}
}
