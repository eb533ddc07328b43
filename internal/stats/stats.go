// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/wordsprint/internal/session"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	maxMistakeRows      = 20
)

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// PaceValues converts WPM samples for plotting.
func PaceValues(pace []int) []float64 {
	out := make([]float64, len(pace))
	for i, v := range pace {
		out[i] = float64(v)
	}
	return out
}

// TerminalWidth returns the width of w when it is a terminal, or a fallback.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// SummaryRows returns the metric/value pairs shown for a session.
func SummaryRows(st session.Stats) [][]string {
	return [][]string{
		{"WPM", fmt.Sprintf("%d", st.WPM)},
		{"Accuracy", fmt.Sprintf("%d%%", st.Accuracy)},
		{"Mistakes", fmt.Sprintf("%d", st.Mistakes)},
		{"Characters", fmt.Sprintf("%d/%d", st.CorrectChars, st.TotalChars)},
		{"Time", fmt.Sprintf("%ds", st.TimeElapsed)},
	}
}

// RenderResult prints a session summary, its mistakes and the pace line.
func RenderResult(w io.Writer, res session.Result, pace []int, width int) error {
	if _, err := fmt.Fprintln(w, "Result"); err != nil {
		return err
	}
	for _, line := range formatTable([]string{"Metric", "Value"}, SummaryRows(res.Stats), map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if len(pace) > 0 {
		if _, err := fmt.Fprintf(w, "Pace  %s\n\n", Sparkline(Resample(PaceValues(pace), width-6))); err != nil {
			return err
		}
	}

	if len(res.Mistakes) == 0 {
		_, err := fmt.Fprintln(w, "No mistakes.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Mistakes"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(res.Mistakes))
	for i, m := range res.Mistakes {
		if i == maxMistakeRows {
			break
		}
		rows = append(rows, []string{fmt.Sprintf("%d", m.Position), charLabel(m.Expected), charLabel(m.Typed)})
	}
	for _, line := range formatTable([]string{"Pos", "Expected", "Typed"}, rows, map[int]bool{0: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if extra := len(res.Mistakes) - maxMistakeRows; extra > 0 {
		if _, err := fmt.Fprintf(w, "... and %d more\n", extra); err != nil {
			return err
		}
	}
	return nil
}

func charLabel(ch string) string {
	switch ch {
	case "":
		return "-"
	case " ":
		return "<space>"
	default:
		return ch
	}
}
