package scheduler

import (
	"testing"
	"time"
)

type countingPruner struct {
	calls int
}

func (c *countingPruner) Prune() int {
	c.calls++
	return 0
}

func TestStartAndStop(t *testing.T) {
	p := &countingPruner{}
	s := New(p, time.Minute, nil)

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}

// A non-positive interval falls back to the default cadence rather than
// failing to schedule.
func TestStartWithZeroInterval(t *testing.T) {
	s := New(&countingPruner{}, 0, nil)

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}
