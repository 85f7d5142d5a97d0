// Package corpus generates the bilingual test messages sent during a run.
package corpus

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Language selects which phrasebook messages are drawn from.
type Language string

const (
	Both      Language = "both"
	English   Language = "english"
	Norwegian Language = "norsk"
)

// ParseLanguage accepts "both", "english", "norsk" and "norwegian".
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return Both, nil
	case "english", "en":
		return English, nil
	case "norsk", "norwegian", "no", "nb":
		return Norwegian, nil
	}
	return "", fmt.Errorf("unknown language %q (expected both, english, or norsk)", s)
}

// simpleShare is the fraction of messages that use a single canned sentence
// instead of an intro/statement/closure composition.
const simpleShare = 0.6

// Generator produces messages from a seeded source. The same seed always
// yields the same sequence.
type Generator struct {
	rng  *rand.Rand
	lang Language
}

// New returns a Generator for lang seeded with seed.
func New(lang Language, seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), lang: lang}
}

// Message returns the next message.
func (g *Generator) Message() string {
	lang := g.lang
	if lang != English && lang != Norwegian {
		lang = pick(g.rng, []Language{Norwegian, English})
	}
	book := phrasebooks[lang]

	if g.rng.Float64() < simpleShare {
		return fmt.Sprintf("%s %s%s", pick(g.rng, book.simple), pick(g.rng, Emojis), pick(g.rng, Specials))
	}
	tone := pick(g.rng, tones)
	return fmt.Sprintf("%s %s, %s %s%s",
		book.intros[tone],
		pick(g.rng, book.statements),
		pick(g.rng, book.closures),
		pick(g.rng, Emojis),
		pick(g.rng, Specials))
}

// Messages returns count messages. A non-positive count yields none.
func (g *Generator) Messages(count int) []string {
	if count <= 0 {
		return []string{}
	}
	out := make([]string, 0, count)
	for range count {
		out = append(out, g.Message())
	}
	return out
}

// Generate is shorthand for New(lang, seed).Messages(count).
func Generate(count int, lang Language, seed uint64) []string {
	return New(lang, seed).Messages(count)
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
