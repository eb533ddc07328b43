package session

import "unicode/utf8"

// Tracker drives a Session from successive input snapshots: it starts the
// clock on the first keystroke, ends it once the passage is fully typed,
// and keeps keystroke streaks and a pace series for reporting.
type Tracker struct {
	session *Session
	input   string
	done    bool

	streak    int
	maxStreak int
	pace      []int
	last      Stats
}

// Update is the outcome of feeding one input snapshot to a Tracker.
type Update struct {
	Stats Stats
	// Done is set once the passage has been fully typed.
	Done bool
	// Correct reports whether the newest keystroke matched; only meaningful
	// when Typed is set.
	Correct bool
	Typed   bool
}

// NewTracker wraps s. The session must not have been started.
func NewTracker(s *Session) *Tracker {
	return &Tracker{session: s, last: s.Stats("")}
}

// Session returns the wrapped session.
func (t *Tracker) Session() *Session {
	return t.session
}

// Input returns the last accepted snapshot.
func (t *Tracker) Input() string {
	return t.input
}

// Update feeds the latest input snapshot. Snapshots after completion are
// ignored and the final stats are returned.
func (t *Tracker) Update(input string) Update {
	if t.done {
		return Update{Stats: t.last, Done: true}
	}
	prevLen := utf8.RuneCountInString(t.input)
	t.input = input
	if t.session.State() == NotStarted && input != "" {
		t.session.Start()
	}

	u := Update{}
	runes := []rune(input)
	if len(runes) > prevLen {
		pos := len(runes) - 1
		target := t.session.target
		u.Typed = true
		u.Correct = pos < len(target) && runes[pos] == target[pos]
		if u.Correct {
			t.streak++
			if t.streak > t.maxStreak {
				t.maxStreak = t.streak
			}
		} else {
			t.streak = 0
		}
	}

	if t.session.State() == Running && len(runes) >= t.session.TargetLen() {
		t.session.End()
		t.done = true
	}
	t.last = t.session.Stats(input)
	u.Stats = t.last
	u.Done = t.done
	return u
}

// Poll recomputes the stats for the last input. While the session runs,
// each poll appends the current WPM to the pace series.
func (t *Tracker) Poll() Stats {
	if t.done {
		return t.last
	}
	t.last = t.session.Stats(t.input)
	if t.session.State() == Running {
		t.pace = append(t.pace, t.last.WPM)
	}
	return t.last
}

// Last returns the most recent stats without recomputing.
func (t *Tracker) Last() Stats {
	return t.last
}

// Done reports whether the passage has been completed.
func (t *Tracker) Done() bool {
	return t.done
}

// Result returns the report for the last input.
func (t *Tracker) Result() Result {
	return t.session.Result(t.input)
}

// Streak returns the current run of correct keystrokes.
func (t *Tracker) Streak() int {
	return t.streak
}

// MaxStreak returns the longest run of correct keystrokes.
func (t *Tracker) MaxStreak() int {
	return t.maxStreak
}

// Pace returns a copy of the WPM samples collected by Poll.
func (t *Tracker) Pace() []int {
	out := make([]int, len(t.pace))
	copy(out, t.pace)
	return out
}

// Progress returns the typed share of the passage as a percentage.
func (t *Tracker) Progress() int {
	total := t.session.TargetLen()
	if total == 0 {
		return 0
	}
	typed := utf8.RuneCountInString(t.input)
	if typed >= total {
		return 100
	}
	return typed * 100 / total
}

// CurrentWord returns the index of the word being typed.
func (t *Tracker) CurrentWord() int {
	n := len(t.session.words)
	if n == 0 {
		return 0
	}
	spaces := 0
	for _, r := range t.input {
		if r == ' ' {
			spaces++
		}
	}
	if spaces > n-1 {
		return n - 1
	}
	return spaces
}
