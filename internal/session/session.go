// Package session implements the typing session engine: a target passage,
// a start/end clock, and statistics derived from input snapshots.
//
// A Session is not safe for concurrent use; give it a single owner.
package session

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/wordsprint/internal/clock"
)

// charsPerWord is the conventional word length for speed measurement.
const charsPerWord = 5

// State is the position of a session in its lifecycle.
type State int

const (
	// NotStarted means Start has not been called.
	NotStarted State = iota
	// Running means the clock is ticking.
	Running
	// Ended means the clock is frozen.
	Ended
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Mistake is one mismatched position of the input. Expected is empty when
// the position lies beyond the end of the passage.
type Mistake struct {
	Position int    `json:"position"`
	Expected string `json:"expected"`
	Typed    string `json:"typed"`
}

// Beyond reports whether the mistake was typed past the end of the passage.
func (m Mistake) Beyond() bool {
	return m.Expected == ""
}

// Stats is a snapshot of the derived session metrics.
type Stats struct {
	WPM          int `json:"wpm"`
	Accuracy     int `json:"accuracy"`
	Mistakes     int `json:"mistakes"`
	CorrectChars int `json:"correctChars"`
	TotalChars   int `json:"totalChars"`
	TimeElapsed  int `json:"timeElapsed"`
}

// Result is the final report of a session.
type Result struct {
	Stats     Stats     `json:"stats"`
	Words     []string  `json:"words"`
	UserInput string    `json:"userInput"`
	Mistakes  []Mistake `json:"mistakes"`
}

// Session compares input snapshots against a fixed passage.
type Session struct {
	words  []string
	target []rune
	clock  clock.Clock

	state     State
	startedAt time.Time
	endedAt   time.Time

	mistakes []Mistake
}

// New builds a session over words. A nil clk uses the system clock.
func New(words []string, clk clock.Clock) *Session {
	if clk == nil {
		clk = clock.System{}
	}
	ws := make([]string, len(words))
	copy(ws, words)
	return &Session{
		words:  ws,
		target: []rune(strings.Join(ws, " ")),
		clock:  clk,
	}
}

// Start begins a fresh timing window and clears the mistake snapshot. It
// may be called again at any point to restart.
func (s *Session) Start() {
	s.state = Running
	s.startedAt = s.clock.Now()
	s.endedAt = time.Time{}
	s.mistakes = nil
}

// End freezes the clock. It does nothing unless the session is running.
func (s *Session) End() {
	if s.state != Running {
		return
	}
	s.state = Ended
	s.endedAt = s.clock.Now()
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// StartedAt returns the start of the current timing window, zero before Start.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// EndedAt returns the time End was called, zero unless ended.
func (s *Session) EndedAt() time.Time {
	return s.endedAt
}

// TargetText returns the passage.
func (s *Session) TargetText() string {
	return string(s.target)
}

// TargetLen returns the passage length in runes.
func (s *Session) TargetLen() int {
	return len(s.target)
}

// Words returns a copy of the passage words.
func (s *Session) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}

// TrackMistakes replaces the mistake snapshot with the mismatches of input.
func (s *Session) TrackMistakes(input string) {
	s.mistakes = diff(s.target, []rune(input))
}

func diff(target, input []rune) []Mistake {
	var mistakes []Mistake
	for i, typed := range input {
		if i < len(target) && target[i] == typed {
			continue
		}
		m := Mistake{Position: i, Typed: string(typed)}
		if i < len(target) {
			m.Expected = string(target[i])
		}
		mistakes = append(mistakes, m)
	}
	return mistakes
}

// Mistakes returns a copy of the snapshot from the latest Stats or
// TrackMistakes call.
func (s *Session) Mistakes() []Mistake {
	out := make([]Mistake, len(s.mistakes))
	copy(out, s.mistakes)
	return out
}

// Stats recomputes the mistake snapshot for input and derives the metrics.
func (s *Session) Stats(input string) Stats {
	s.TrackMistakes(input)
	total := len([]rune(input))
	mistakes := len(s.mistakes)
	correct := total - mistakes
	if correct < 0 {
		correct = 0
	}
	elapsed := s.elapsed()
	return Stats{
		WPM:          wordsPerMinute(total, elapsed, s.state),
		Accuracy:     accuracy(correct, total),
		Mistakes:     mistakes,
		CorrectChars: correct,
		TotalChars:   total,
		TimeElapsed:  int(math.Round(elapsed.Seconds())),
	}
}

// Result returns the stats together with the passage and mistakes.
func (s *Session) Result(input string) Result {
	stats := s.Stats(input)
	return Result{
		Stats:     stats,
		Words:     s.Words(),
		UserInput: input,
		Mistakes:  s.Mistakes(),
	}
}

func (s *Session) elapsed() time.Duration {
	var d time.Duration
	switch s.state {
	case Running:
		d = s.clock.Now().Sub(s.startedAt)
	case Ended:
		d = s.endedAt.Sub(s.startedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}

func wordsPerMinute(typed int, elapsed time.Duration, state State) int {
	if state == NotStarted {
		return 0
	}
	ms := elapsed.Milliseconds()
	if ms <= 0 {
		return 0
	}
	minutes := float64(ms) / 60000.0
	return int(math.Round((float64(typed) / charsPerWord) / minutes))
}

func accuracy(correct, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
