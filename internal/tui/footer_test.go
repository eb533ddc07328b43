package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/wordsprint/internal/clock"
	"github.com/verte-zerg/wordsprint/internal/session"
)

func TestRenderFooterFormats(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	tr := session.NewTracker(session.New([]string{"ab", "cd"}, clk))
	tr.Update("a")
	tr.Update("ab")
	m := &Model{
		targetRunes: []rune("ab cd"),
		inputRunes:  []rune("ab"),
		tracker:     tr,
		stats:       session.Stats{WPM: 72, Accuracy: 98, Mistakes: 1, TimeElapsed: 12},
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"72 WPM", "98% acc", "1 mistakes", "12s", "Progress 40%", "Streak 2"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
