package session

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/wordsprint/internal/clock"
)

func newTestSession(words ...string) (*Session, *clock.Manual) {
	clk := clock.NewManual(time.Unix(1_700_000_000, 0))
	return New(words, clk), clk
}

func TestTargetText(t *testing.T) {
	s, _ := newTestSession("cat", "dog", "bird")
	if got := s.TargetText(); got != "cat dog bird" {
		t.Fatalf("unexpected passage %q", got)
	}
	empty, _ := newTestSession()
	if got := empty.TargetText(); got != "" {
		t.Fatalf("expected empty passage, got %q", got)
	}
}

func TestEmptyInputStats(t *testing.T) {
	s, _ := newTestSession("cat", "dog")
	st := s.Stats("")
	if st.Accuracy != 100 || st.Mistakes != 0 || st.WPM != 0 {
		t.Fatalf("unexpected stats for empty input: %+v", st)
	}
	if st.TimeElapsed != 0 {
		t.Fatalf("expected zero elapsed before start, got %d", st.TimeElapsed)
	}
}

func TestMistakeDetection(t *testing.T) {
	s, _ := newTestSession("cat")
	st := s.Stats("cap")
	mistakes := s.Mistakes()
	if len(mistakes) != 1 {
		t.Fatalf("expected 1 mistake, got %+v", mistakes)
	}
	want := Mistake{Position: 2, Expected: "t", Typed: "p"}
	if mistakes[0] != want {
		t.Fatalf("expected %+v, got %+v", want, mistakes[0])
	}
	if st.CorrectChars != 2 || st.TotalChars != 3 || st.Accuracy != 67 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestMistakesBeyondPassage(t *testing.T) {
	s, _ := newTestSession("cat")
	st := s.Stats("catdog")
	if st.TotalChars != 6 || st.CorrectChars != 3 || st.Mistakes != 3 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	for i, m := range s.Mistakes() {
		if m.Position != 3+i {
			t.Fatalf("expected position %d, got %d", 3+i, m.Position)
		}
		if !m.Beyond() || m.Expected != "" {
			t.Fatalf("expected no expected char at %d, got %q", m.Position, m.Expected)
		}
		if m.Typed != string("dog"[i]) {
			t.Fatalf("expected typed %q, got %q", "dog"[i], m.Typed)
		}
	}
}

func TestCorrectPlusMistakesEqualsTotal(t *testing.T) {
	s, _ := newTestSession("hello", "world")
	for _, input := range []string{"", "h", "hx", "hello world", "hellO wOrld!!", "zzzzzzzzzzzzzzzz"} {
		st := s.Stats(input)
		if st.CorrectChars+st.Mistakes != st.TotalChars {
			t.Fatalf("invariant broken for %q: %+v", input, st)
		}
		if st.Accuracy < 0 || st.Accuracy > 100 {
			t.Fatalf("accuracy out of range for %q: %d", input, st.Accuracy)
		}
	}
}

func TestMistakesAreSnapshots(t *testing.T) {
	s, _ := newTestSession("cat")
	s.Stats("cx")
	if len(s.Mistakes()) != 1 {
		t.Fatalf("expected 1 mistake")
	}
	// Backspace and retype.
	s.Stats("c")
	if len(s.Mistakes()) != 0 {
		t.Fatalf("expected corrected mistake to disappear, got %+v", s.Mistakes())
	}
	s.Stats("ca")
	if len(s.Mistakes()) != 0 {
		t.Fatalf("expected no mistakes, got %+v", s.Mistakes())
	}
}

func TestWPMFormula(t *testing.T) {
	s, clk := newTestSession("irrelevant")
	s.Start()
	clk.Advance(60 * time.Second)
	st := s.Stats(strings.Repeat("a", 250))
	if st.WPM != 50 {
		t.Fatalf("expected 50 wpm, got %d", st.WPM)
	}
	if st.TimeElapsed != 60 {
		t.Fatalf("expected 60s elapsed, got %d", st.TimeElapsed)
	}
}

func TestWPMZeroElapsed(t *testing.T) {
	s, _ := newTestSession("cat")
	s.Start()
	if st := s.Stats("cat"); st.WPM != 0 {
		t.Fatalf("expected 0 wpm with no elapsed time, got %d", st.WPM)
	}
}

func TestWPMBeforeStart(t *testing.T) {
	s, clk := newTestSession("cat")
	clk.Advance(time.Minute)
	if st := s.Stats("cat"); st.WPM != 0 || st.TimeElapsed != 0 {
		t.Fatalf("expected zero timing before start, got %+v", st)
	}
}

func TestEndFreezesElapsed(t *testing.T) {
	s, clk := newTestSession("cat", "dog")
	s.Start()
	clk.Advance(30 * time.Second)
	s.End()
	clk.Advance(90 * time.Second)
	st := s.Stats("cat dog")
	if st.TimeElapsed != 30 {
		t.Fatalf("expected frozen 30s, got %d", st.TimeElapsed)
	}
	// 7 chars / 5 / 0.5 min = 2.8
	if st.WPM != 3 {
		t.Fatalf("expected 3 wpm, got %d", st.WPM)
	}
	s.End()
	clk.Advance(time.Second)
	if got := s.Stats("cat dog").TimeElapsed; got != 30 {
		t.Fatalf("second End must not move the end time, got %d", got)
	}
}

func TestEndBeforeStartIsIgnored(t *testing.T) {
	s, clk := newTestSession("cat")
	s.End()
	if s.State() != NotStarted {
		t.Fatalf("expected not started, got %v", s.State())
	}
	if !s.EndedAt().IsZero() {
		t.Fatalf("expected zero end time")
	}
	clk.Advance(time.Minute)
	if st := s.Stats("ca"); st.WPM != 0 || st.TimeElapsed != 0 {
		t.Fatalf("expected no timing stats, got %+v", st)
	}
}

func TestRestartClearsState(t *testing.T) {
	s, clk := newTestSession("cat")
	s.Start()
	s.Stats("cxx")
	clk.Advance(10 * time.Second)
	s.End()

	clk.Advance(5 * time.Second)
	s.Start()
	if s.State() != Running {
		t.Fatalf("expected running after restart, got %v", s.State())
	}
	if len(s.Mistakes()) != 0 {
		t.Fatalf("expected mistakes cleared on restart")
	}
	if !s.EndedAt().IsZero() {
		t.Fatalf("expected end time cleared on restart")
	}
	clk.Advance(2 * time.Second)
	if got := s.Stats("").TimeElapsed; got != 2 {
		t.Fatalf("expected fresh 2s window, got %d", got)
	}
}

func TestRunningElapsedRounds(t *testing.T) {
	s, clk := newTestSession("cat")
	s.Start()
	clk.Advance(1499 * time.Millisecond)
	if got := s.Stats("").TimeElapsed; got != 1 {
		t.Fatalf("expected 1s, got %d", got)
	}
	clk.Advance(time.Millisecond)
	if got := s.Stats("").TimeElapsed; got != 2 {
		t.Fatalf("expected 2s, got %d", got)
	}
}

func TestStatsIdempotent(t *testing.T) {
	s, clk := newTestSession("quick", "brown", "fox")
	s.Start()
	clk.Advance(12345 * time.Millisecond)
	a := s.Stats("quick brx")
	ma := s.Mistakes()
	b := s.Stats("quick brx")
	mb := s.Mistakes()
	if a != b {
		t.Fatalf("stats differ: %+v vs %+v", a, b)
	}
	if len(ma) != len(mb) || ma[0] != mb[0] {
		t.Fatalf("mistakes differ: %+v vs %+v", ma, mb)
	}
}

func TestEmptyPassageNoPanic(t *testing.T) {
	s, clk := newTestSession()
	s.Start()
	clk.Advance(time.Second)
	st := s.Stats("ab")
	if st.Mistakes != 2 || st.CorrectChars != 0 || st.Accuracy != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestMultibyteRunes(t *testing.T) {
	s, _ := newTestSession("naïve")
	st := s.Stats("naive")
	if st.TotalChars != 5 || st.Mistakes != 1 {
		t.Fatalf("expected rune based counts, got %+v", st)
	}
	m := s.Mistakes()[0]
	if m.Position != 2 || m.Expected != "ï" || m.Typed != "i" {
		t.Fatalf("unexpected mistake %+v", m)
	}
}

func TestResult(t *testing.T) {
	s, clk := newTestSession("cat", "dog")
	s.Start()
	clk.Advance(6 * time.Second)
	s.End()
	res := s.Result("cat dox")
	if res.UserInput != "cat dox" {
		t.Fatalf("unexpected input %q", res.UserInput)
	}
	if len(res.Words) != 2 || res.Words[1] != "dog" {
		t.Fatalf("unexpected words %v", res.Words)
	}
	if len(res.Mistakes) != 1 || res.Mistakes[0].Position != 6 {
		t.Fatalf("unexpected mistakes %+v", res.Mistakes)
	}
	if res.Stats.TimeElapsed != 6 || res.Stats.Mistakes != 1 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}
}
