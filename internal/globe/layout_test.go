package globe

import (
	"errors"
	"testing"
)

func TestLayoutSections(t *testing.T) {
	l := NewLayout(7)
	if l.Total() != 10 {
		t.Errorf("Total() = %d, want 10", l.Total())
	}
	if l.CTA() != 8 || l.Footer() != 9 {
		t.Errorf("CTA/Footer = %d/%d, want 8/9", l.CTA(), l.Footer())
	}
}

func TestHashRoundTrip(t *testing.T) {
	l := NewLayout(7)
	for i := 0; i < l.Total(); i++ {
		hash, err := l.HashFor(i)
		if err != nil {
			t.Fatalf("HashFor(%d): %v", i, err)
		}
		got, err := l.ParseHash(hash)
		if err != nil {
			t.Fatalf("ParseHash(%q): %v", hash, err)
		}
		if got != i {
			t.Errorf("ParseHash(HashFor(%d)) = %d", i, got)
		}
	}
}

func TestHashFor(t *testing.T) {
	l := NewLayout(3)
	tests := []struct {
		index int
		want  string
	}{
		{0, ""},
		{1, "entity-0"},
		{3, "entity-2"},
		{4, "cta"},
		{5, "footer"},
	}
	for _, tt := range tests {
		got, err := l.HashFor(tt.index)
		if err != nil {
			t.Fatalf("HashFor(%d): %v", tt.index, err)
		}
		if got != tt.want {
			t.Errorf("HashFor(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}

	if _, err := l.HashFor(6); !errors.Is(err, ErrSectionRange) {
		t.Errorf("HashFor(6) error = %v, want ErrSectionRange", err)
	}
	if _, err := l.HashFor(-1); !errors.Is(err, ErrSectionRange) {
		t.Errorf("HashFor(-1) error = %v, want ErrSectionRange", err)
	}
}

func TestParseHash(t *testing.T) {
	l := NewLayout(7)
	tests := []struct {
		name    string
		token   string
		want    int
		wantErr error
	}{
		{"hero", "", 0, nil},
		{"leading hash", "#entity-3", 4, nil},
		{"entity", "entity-0", 1, nil},
		{"cta", "cta", 8, nil},
		{"footer", "#footer", 9, nil},
		{"unknown", "pricing", 0, ErrUnknownHash},
		{"bad number", "entity-x", 0, ErrUnknownHash},
		{"out of range", "entity-7", 0, ErrSectionRange},
		{"negative", "entity--1", 0, ErrSectionRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.ParseHash(tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseHash(%q) error = %v, want %v", tt.token, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHash(%q): %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseHash(%q) = %d, want %d", tt.token, got, tt.want)
			}
		})
	}
}

func TestStateAt(t *testing.T) {
	l := NewLayout(7)
	idx, err := l.ParseHash("entity-3")
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	s := l.StateAt(idx)
	if s.Index != 4 || s.EntityIndex != 3 {
		t.Errorf("StateAt(%d) = %+v, want index 4 entity 3", idx, s)
	}
	if want := 4.0 / 9.0; s.Progress != want {
		t.Errorf("Progress = %v, want %v", s.Progress, want)
	}

	for _, i := range []int{0, l.CTA(), l.Footer()} {
		if got := l.StateAt(i).EntityIndex; got != -1 {
			t.Errorf("StateAt(%d).EntityIndex = %d, want -1", i, got)
		}
	}
	if got := l.StateAt(l.Footer()).Progress; got != 1 {
		t.Errorf("footer progress = %v, want 1", got)
	}
}
