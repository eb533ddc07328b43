// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang     string
	Words    int
	WordList string
	Seed     int64
	CapsPct  float64
	PunctPct float64
	PunctSet string
}

// LangInfo describes a word list stored in the catalog.
type LangInfo struct {
	Lang       string
	Source     string
	Words      int
	ImportedAt time.Time
}
