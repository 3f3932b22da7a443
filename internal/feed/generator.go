// Package feed builds captions for new feed cards.
package feed

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// DefaultCaptions are used when no caption word list is available.
var DefaultCaptions = []string{
	"Pull the cards down and get another!",
	"Whoa! Pretty cool, huh?",
	"That is a cute terminal.",
	"I could do this all day...",
}

// Generator produces randomized captions.
type Generator struct {
	rnd   *rand.Rand
	words []string
	count int
	next  int
}

// New returns a Generator seeded with the current time. With an empty word
// list it cycles through DefaultCaptions.
func New(words []string, count int) *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()), words, count)
}

// NewWithSource returns a Generator using the given random source.
func NewWithSource(src rand.Source, words []string, count int) *Generator {
	if count <= 0 {
		count = 1
	}
	return &Generator{rnd: rand.New(src), words: words, count: count}
}

// Caption returns the next caption.
func (g *Generator) Caption() string {
	if len(g.words) == 0 {
		caption := DefaultCaptions[g.next%len(DefaultCaptions)]
		g.next++
		return caption
	}
	picked := make([]string, 0, g.count)
	for i := 0; i < g.count; i++ {
		picked = append(picked, g.words[g.rnd.Intn(len(g.words))])
	}
	return sentence(picked)
}

func sentence(words []string) string {
	text := strings.Join(words, " ")
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	runes[0] = unicode.ToUpper(runes[0])
	if !unicode.IsPunct(runes[len(runes)-1]) {
		runes = append(runes, '.')
	}
	return string(runes)
}
