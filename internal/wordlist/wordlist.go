// Package wordlist loads word lists and feeds them into a word store.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/wordsprint/internal/wordstore"
)

//go:embed en.txt
var defaultEnglish string

// DefaultLang is the language of the embedded list.
const DefaultLang = "en"

// Default returns the embedded English word list.
func Default() []string {
	words, err := ReadWords(strings.NewReader(defaultEnglish))
	if err != nil {
		// The embedded list is never empty.
		panic(err)
	}
	return words
}

// ReadWords reads one word per line. Blank lines and lines starting with
// '#' are skipped.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// Fill inserts words into st and returns how many were inserted.
func Fill(st *wordstore.Store, words []string) int {
	for _, w := range words {
		st.Insert(w)
	}
	return len(words)
}
