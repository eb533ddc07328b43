package clock

import (
	"testing"
	"time"
)

func TestManualAdvance(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewManual(start)
	if !c.Now().Equal(start) {
		t.Fatalf("expected %v, got %v", start, c.Now())
	}
	c.Advance(1500 * time.Millisecond)
	if got := c.Now().Sub(start); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s advance, got %v", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("expected reset to %v, got %v", start, c.Now())
	}
}
