// Package wordstore holds the practice vocabulary in a prefix tree and
// samples words from it.
package wordstore

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrInvalidArgument reports a caller contract violation.
var ErrInvalidArgument = errors.New("invalid argument")

type node struct {
	children map[rune]*node
	end      bool
	word     string
}

func newNode() *node {
	return &node{children: map[rune]*node{}}
}

// Store is a vocabulary with case-insensitive lookups and weighted sampling.
//
// Lookups and sampling are safe for concurrent use once all Insert calls
// have returned.
type Store struct {
	root  *node
	words []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns an empty Store drawing from rnd. A nil rnd is seeded with the
// current time.
func New(rnd *rand.Rand) *Store {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{root: newNode(), rnd: rnd}
}

// NewFromWords returns a Store with words inserted in order.
func NewFromWords(rnd *rand.Rand, words []string) *Store {
	s := New(rnd)
	for _, w := range words {
		s.Insert(w)
	}
	return s
}

// Insert adds word to the tree and to the sampling pool.
func (s *Store) Insert(word string) {
	current := s.root
	for _, r := range strings.ToLower(word) {
		next, ok := current.children[r]
		if !ok {
			next = newNode()
			current.children[r] = next
		}
		current = next
	}
	current.end = true
	current.word = word
	s.words = append(s.words, word)
}

// Contains reports whether word was inserted, ignoring case.
func (s *Store) Contains(word string) bool {
	n := s.walk(word)
	return n != nil && n.end
}

// WordsWithPrefix returns every stored word starting with prefix, ignoring
// case. Children are visited in rune order so the result is stable.
func (s *Store) WordsWithPrefix(prefix string) []string {
	n := s.walk(prefix)
	if n == nil {
		return []string{}
	}
	results := []string{}
	collect(n, &results)
	return results
}

func (s *Store) walk(key string) *node {
	current := s.root
	for _, r := range strings.ToLower(key) {
		next, ok := current.children[r]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func collect(n *node, results *[]string) {
	if n.end {
		*results = append(*results, n.word)
	}
	keys := make([]rune, 0, len(n.children))
	for r := range n.children {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, r := range keys {
		collect(n.children[r], results)
	}
}

// RandomWord returns a word drawn uniformly from the pool, or "" when the
// pool is empty.
func (s *Store) RandomWord() string {
	if len(s.words) == 0 {
		return ""
	}
	s.mu.Lock()
	idx := s.rnd.Intn(len(s.words))
	s.mu.Unlock()
	return s.words[idx]
}

// RandomWords draws count words with replacement.
func (s *Store) RandomWords(count int) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: word count must be >= 0, got %d", ErrInvalidArgument, count)
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, s.RandomWord())
	}
	return result, nil
}

// Size returns the pool length, duplicates included.
func (s *Store) Size() int {
	return len(s.words)
}

// Words returns a copy of the pool in insertion order.
func (s *Store) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}
