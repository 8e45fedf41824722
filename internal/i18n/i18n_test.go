package i18n

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestLoad(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, loc := range Locales {
		data, err := b.Messages(loc)
		if err != nil {
			t.Fatalf("Messages(%s): %v", loc, err)
		}
		if !json.Valid(data) {
			t.Errorf("Messages(%s) is not valid JSON", loc)
		}
	}
	if _, err := b.Messages("fr"); !errors.Is(err, ErrUnknownLocale) {
		t.Errorf("Messages(fr) error = %v, want ErrUnknownLocale", err)
	}
}

func TestNegotiate(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		header string
		want   string
	}{
		{"", "ko"},
		{"en-US,en;q=0.9", "en"},
		{"zh-CN,zh;q=0.9", "zh"},
		{"ko-KR", "ko"},
		{"fr-FR", "ko"},
		{"fr;q=0.9,en;q=0.5", "en"},
		{"!!garbage", "ko"},
	}
	for _, tt := range tests {
		if got := b.Negotiate(tt.header); got != tt.want {
			t.Errorf("Negotiate(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestT(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := b.T("en", "nav.magazines"); got != "Magazine" {
		t.Errorf("T(en, nav.magazines) = %q", got)
	}
	if got := b.T("fr", "nav.home"); got != "홈" {
		t.Errorf("unknown locale should fall back to ko, got %q", got)
	}
	if got := b.T("en", "nav.missing"); got != "nav.missing" {
		t.Errorf("missing key = %q, want the key", got)
	}
	if got := b.T("en", "nav"); got != "nav" {
		t.Errorf("non-leaf key = %q, want the key", got)
	}
}

func TestSupported(t *testing.T) {
	for _, loc := range []string{"ko", "en", "zh"} {
		if !Supported(loc) {
			t.Errorf("Supported(%q) = false", loc)
		}
	}
	if Supported("ja") {
		t.Error("Supported(ja) = true")
	}
}
