// Package i18n provides the user-facing strings of the game in every
// supported language.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

// Translator looks up a message by key and formats it with args.
type Translator interface {
	T(key string, args ...any) string
	Lang() string
}

// Bundle holds the messages of every language.
type Bundle struct {
	fallback string
	messages map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

// Load reads the embedded locale files. fallback names the language used for
// unknown languages and missing keys.
func Load(fallback string) (*Bundle, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}

	b := &Bundle{
		fallback: fallback,
		messages: make(map[string]map[string]string, len(entries)),
	}
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		data, err := locales.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading locale %s: %w", lang, err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing locale %s: %w", lang, err)
		}
		b.messages[lang] = m
	}
	if _, ok := b.messages[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no locale file", fallback)
	}

	// The fallback goes first so the matcher prefers it on no match.
	b.tags = append(b.tags, language.Make(fallback))
	for lang := range b.messages {
		if lang != fallback {
			b.tags = append(b.tags, language.Make(lang))
		}
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Match picks the best supported language for an Accept-Language header value
// or a plain language code.
func (b *Bundle) Match(accept string) string {
	if accept == "" {
		return b.fallback
	}
	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(desired...)
	if conf == language.No {
		return b.fallback
	}
	base, _ := b.tags[idx].Base()
	return base.String()
}

// For returns a Translator for lang, falling back when lang is unknown.
func (b *Bundle) For(lang string) Translator {
	if _, ok := b.messages[lang]; !ok {
		lang = b.fallback
	}
	return translator{bundle: b, lang: lang}
}

type translator struct {
	bundle *Bundle
	lang   string
}

func (t translator) Lang() string { return t.lang }

func (t translator) T(key string, args ...any) string {
	msg, ok := t.bundle.messages[t.lang][key]
	if !ok {
		msg, ok = t.bundle.messages[t.bundle.fallback][key]
	}
	if !ok {
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
