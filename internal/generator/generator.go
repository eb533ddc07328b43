// Package generator builds typing passages from a vocabulary.
package generator

import (
	"math/rand"
	"sync"
	"time"
	"unicode"
)

// Sampler draws words with replacement.
type Sampler interface {
	RandomWords(count int) ([]string, error)
}

// Generator decorates sampled words for practice.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator drawing from rnd. A nil rnd is seeded with the
// current time.
func New(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd}
}

// Generate samples count words and applies caps/punctuation rules. With
// both probabilities at zero the sampled words are returned unchanged.
func (g *Generator) Generate(src Sampler, count int, capsPct, punctPct float64, punctSet []rune) ([]string, error) {
	words, err := src.RandomWords(count)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, word := range words {
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		words[i] = word
	}
	return words, nil
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || word == "" {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
