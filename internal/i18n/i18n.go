// Package i18n holds the site's locales and their message bundles.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const DefaultLocale = "ko"

// Locales lists the supported locales, default first.
var Locales = []string{"ko", "en", "zh"}

var ErrUnknownLocale = errors.New("unknown locale")

// Seoul is the site's display time zone.
var Seoul = time.FixedZone("KST", 9*60*60)

//go:embed messages/*.json
var messagesFS embed.FS

// Bundle holds the message tree of every locale.
type Bundle struct {
	raw     map[string][]byte
	trees   map[string]map[string]any
	matcher language.Matcher
}

// Load reads and checks the embedded bundles. Every locale must define the
// same keys as the default one.
func Load() (*Bundle, error) {
	b := &Bundle{
		raw:   make(map[string][]byte, len(Locales)),
		trees: make(map[string]map[string]any, len(Locales)),
	}
	tags := make([]language.Tag, len(Locales))
	for i, loc := range Locales {
		tags[i] = language.MustParse(loc)

		data, err := messagesFS.ReadFile("messages/" + loc + ".json")
		if err != nil {
			return nil, fmt.Errorf("reading %s messages: %w", loc, err)
		}
		var tree map[string]any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing %s messages: %w", loc, err)
		}
		b.raw[loc] = data
		b.trees[loc] = tree
	}
	b.matcher = language.NewMatcher(tags)

	want := flatKeys(b.trees[DefaultLocale], "")
	for _, loc := range Locales[1:] {
		got := flatKeys(b.trees[loc], "")
		if !slices.Equal(got, want) {
			return nil, fmt.Errorf("%s messages: keys differ from %s", loc, DefaultLocale)
		}
	}
	return b, nil
}

// Supported reports whether locale is one of Locales.
func Supported(locale string) bool {
	return slices.Contains(Locales, locale)
}

// Negotiate picks the best supported locale for an Accept-Language header,
// falling back to the default.
func (b *Bundle) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	return Locales[idx]
}

// Messages returns the raw JSON bundle of a locale.
func (b *Bundle) Messages(locale string) ([]byte, error) {
	data, ok := b.raw[locale]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	return data, nil
}

// T looks up a dotted key such as "hero.title", falling back to the default
// locale, then to the key itself.
func (b *Bundle) T(locale, key string) string {
	if v, ok := lookup(b.trees[locale], key); ok {
		return v
	}
	if v, ok := lookup(b.trees[DefaultLocale], key); ok {
		return v
	}
	return key
}

func lookup(tree map[string]any, key string) (string, bool) {
	var node any = tree
	for part := range strings.SplitSeq(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		node, ok = m[part]
		if !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}

func flatKeys(tree map[string]any, prefix string) []string {
	var out []string
	for _, k := range slices.Sorted(maps.Keys(tree)) {
		if sub, ok := tree[k].(map[string]any); ok {
			out = append(out, flatKeys(sub, prefix+k+".")...)
			continue
		}
		out = append(out, prefix+k)
	}
	return out
}
