package probe

import (
	"time"

	"github.com/cfpulse/cfpulse/internal/window"
)

// megabitsPerSecond converts a byte count over an elapsed duration into
// Mbps (decimal megabits, matching the reported units).
func megabitsPerSecond(size int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(size*8) / elapsed.Seconds() / 1000 / 1000
}

// rateSampler turns a cumulative byte counter into interval-based
// instantaneous throughput samples. Whenever at least SamplingInterval
// has elapsed since the previous sample point it pushes the rate over
// that interval into the window and resets the anchor.
type rateSampler struct {
	win      *window.Window
	interval time.Duration
	anchor   time.Time
	anchored int64
}

func newRateSampler(interval time.Duration, now time.Time) *rateSampler {
	return &rateSampler{
		win:      window.New(ThroughputWindowSize),
		interval: interval,
		anchor:   now,
	}
}

// observe records the cumulative byte count at now. It returns a window
// snapshot and true when a new sample point was reached.
func (s *rateSampler) observe(total int64, now time.Time) ([]float64, bool) {
	elapsed := now.Sub(s.anchor)
	if elapsed < s.interval {
		return nil, false
	}

	s.win.Push(megabitsPerSecond(total-s.anchored, elapsed))
	s.anchor = now
	s.anchored = total

	return s.win.Snapshot(), true
}
