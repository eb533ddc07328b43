// Package store handles SQLite persistence of word lists.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/wordsprint/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a language has no stored word list.
var ErrNotFound = errors.New("word list not found")

// Store wraps SQLite access for the word list catalog.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wordlists (
			lang TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			imported_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS words (
			lang TEXT NOT NULL,
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			PRIMARY KEY (lang, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ImportWords replaces the word list for lang. Word order is preserved.
func (s *Store) ImportWords(ctx context.Context, lang, source string, words []string) (n int, err error) {
	lang = strings.TrimSpace(strings.ToLower(lang))
	if lang == "" {
		return 0, fmt.Errorf("language is required")
	}
	if len(words) == 0 {
		return 0, fmt.Errorf("word list is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM words WHERE lang = ?`, lang); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wordlists (lang, source, imported_at) VALUES (?, ?, ?)
		 ON CONFLICT(lang) DO UPDATE SET source = excluded.source, imported_at = excluded.imported_at`,
		lang, source, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO words (lang, position, word) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, w := range words {
		if _, err = stmt.ExecContext(ctx, lang, i, w); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(words), nil
}

// LoadWords returns the stored word list for lang in import order.
func (s *Store) LoadWords(ctx context.Context, lang string) ([]string, error) {
	lang = strings.TrimSpace(strings.ToLower(lang))
	rows, err := s.db.QueryContext(ctx, `SELECT word FROM words WHERE lang = ? ORDER BY position ASC`, lang)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, lang)
	}
	return words, nil
}

// ListLangs returns every stored word list ordered by language.
func (s *Store) ListLangs(ctx context.Context) ([]model.LangInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT l.lang, l.source, l.imported_at, COUNT(w.word)
		FROM wordlists l
		LEFT JOIN words w ON w.lang = l.lang
		GROUP BY l.lang, l.source, l.imported_at
		ORDER BY l.lang ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LangInfo
	for rows.Next() {
		var info model.LangInfo
		var importedAt string
		if err := rows.Scan(&info.Lang, &info.Source, &importedAt, &info.Words); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, importedAt)
		if err != nil {
			return nil, err
		}
		info.ImportedAt = parsed
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
