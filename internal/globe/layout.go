// Package globe drives the hero globe: a section navigator that moves one
// section at a time and a camera that follows it.
package globe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	HashCTA          = "cta"
	HashFooter       = "footer"
	entityHashPrefix = "entity-"
)

var (
	ErrUnknownHash    = errors.New("unknown section hash")
	ErrSectionRange   = errors.New("section out of range")
	ErrNoActiveEntity = errors.New("no entity section active")
)

// Layout is the fixed section sequence: hero, one section per entity, CTA,
// footer.
type Layout struct {
	entities int
}

func NewLayout(entityCount int) Layout {
	return Layout{entities: max(entityCount, 0)}
}

func (l Layout) Total() int { return l.entities + 3 }

func (l Layout) EntityCount() int { return l.entities }

func (l Layout) CTA() int { return l.entities + 1 }

func (l Layout) Footer() int { return l.entities + 2 }

// HashFor returns the URL hash token of a section, without the leading '#'.
func (l Layout) HashFor(index int) (string, error) {
	switch {
	case index == 0:
		return "", nil
	case index >= 1 && index <= l.entities:
		return entityHashPrefix + strconv.Itoa(index-1), nil
	case index == l.CTA():
		return HashCTA, nil
	case index == l.Footer():
		return HashFooter, nil
	}
	return "", fmt.Errorf("%w: %d", ErrSectionRange, index)
}

// ParseHash maps a hash token back to its section index. A leading '#' is
// ignored.
func (l Layout) ParseHash(token string) (int, error) {
	token = strings.TrimPrefix(token, "#")
	switch token {
	case "":
		return 0, nil
	case HashCTA:
		return l.CTA(), nil
	case HashFooter:
		return l.Footer(), nil
	}
	rest, ok := strings.CutPrefix(token, entityHashPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHash, token)
	}
	i, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHash, token)
	}
	if i < 0 || i >= l.entities {
		return 0, fmt.Errorf("%w: entity %d", ErrSectionRange, i)
	}
	return i + 1, nil
}

// SectionState is the navigator's observable state.
type SectionState struct {
	Index         int     `json:"index"`
	EntityIndex   int     `json:"entityIndex"`
	Progress      float64 `json:"progress"`
	Transitioning bool    `json:"transitioning"`
}

// StateAt derives entity index and progress for a section index.
func (l Layout) StateAt(index int) SectionState {
	entity := -1
	if index >= 1 && index <= l.entities {
		entity = index - 1
	}
	return SectionState{
		Index:       index,
		EntityIndex: entity,
		Progress:    float64(index) / float64(l.Total()-1),
	}
}
