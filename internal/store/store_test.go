package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "wordsprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestImportAndLoadWords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	words := []string{"zebra", "apple", "apple", "Mango"}
	n, err := st.ImportWords(ctx, "EN", "words.txt", words)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != len(words) {
		t.Fatalf("expected %d imported, got %d", len(words), n)
	}
	got, err := st.LoadWords(ctx, "en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(words) {
		t.Fatalf("expected %d words, got %v", len(words), got)
	}
	for i, w := range words {
		if got[i] != w {
			t.Fatalf("expected %q at %d, got %q", w, i, got[i])
		}
	}
}

func TestImportReplacesList(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.ImportWords(ctx, "de", "a.txt", []string{"eins", "zwei", "drei"}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := st.ImportWords(ctx, "de", "b.txt", []string{"haus"}); err != nil {
		t.Fatalf("reimport: %v", err)
	}
	got, err := st.LoadWords(ctx, "de")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != "haus" {
		t.Fatalf("expected replaced list, got %v", got)
	}
	langs, err := st.ListLangs(ctx)
	if err != nil {
		t.Fatalf("list langs: %v", err)
	}
	if len(langs) != 1 || langs[0].Source != "b.txt" || langs[0].Words != 1 {
		t.Fatalf("unexpected langs: %+v", langs)
	}
	if langs[0].ImportedAt.IsZero() {
		t.Fatalf("expected import time")
	}
}

func TestLoadWordsNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.LoadWords(context.Background(), "fr"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImportRejectsEmpty(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.ImportWords(ctx, "en", "x", nil); err == nil {
		t.Fatalf("expected error for empty list")
	}
	if _, err := st.ImportWords(ctx, " ", "x", []string{"a"}); err == nil {
		t.Fatalf("expected error for empty language")
	}
}

func TestListLangsOrdered(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, lang := range []string{"es", "de", "en"} {
		if _, err := st.ImportWords(ctx, lang, lang+".txt", []string{"x", "y"}); err != nil {
			t.Fatalf("import %s: %v", lang, err)
		}
	}
	langs, err := st.ListLangs(ctx)
	if err != nil {
		t.Fatalf("list langs: %v", err)
	}
	if len(langs) != 3 || langs[0].Lang != "de" || langs[1].Lang != "en" || langs[2].Lang != "es" {
		t.Fatalf("unexpected order: %+v", langs)
	}
}
