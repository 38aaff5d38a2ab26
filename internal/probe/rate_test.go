package probe

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestMegabitsPerSecond(t *testing.T) {
	assert.Equal(t, megabitsPerSecond(25_000_000, 2*time.Second), 100.0)
	assert.Equal(t, megabitsPerSecond(1_000_000, time.Second), 8.0)
	assert.Equal(t, megabitsPerSecond(0, time.Second), 0.0)
	assert.Equal(t, megabitsPerSecond(1_000_000, 0), 0.0)
}

func TestRateSamplerBelowInterval(t *testing.T) {
	t0 := time.Now()
	s := newRateSampler(100*time.Millisecond, t0)

	_, ok := s.observe(1000, t0.Add(50*time.Millisecond))

	assert.Equal(t, ok, false)
}

func TestRateSamplerEmitsIntervalRate(t *testing.T) {
	t0 := time.Now()
	s := newRateSampler(100*time.Millisecond, t0)

	// 1,250,000 bytes in 100 ms is 100 Mbps.
	snap, ok := s.observe(1_250_000, t0.Add(100*time.Millisecond))

	assert.Equal(t, ok, true)
	assert.DeepEqual(t, snap, []float64{100.0})
}

func TestRateSamplerResetsAnchor(t *testing.T) {
	t0 := time.Now()
	s := newRateSampler(100*time.Millisecond, t0)

	_, ok := s.observe(1_250_000, t0.Add(100*time.Millisecond))
	assert.Equal(t, ok, true)

	// Only the delta since the previous sample point counts.
	snap, ok := s.observe(1_875_000, t0.Add(200*time.Millisecond))
	assert.Equal(t, ok, true)
	assert.DeepEqual(t, snap, []float64{100.0, 50.0})
}

// The sampling interval only changes the density of intermediate
// samples; the cumulative byte count it observes is untouched, so the
// whole-transfer average stays the same.
func TestRateSamplerIntervalDoesNotAffectTotals(t *testing.T) {
	t0 := time.Now()
	coarse := newRateSampler(200*time.Millisecond, t0)
	fine := newRateSampler(50*time.Millisecond, t0)

	total := int64(0)
	coarseSamples, fineSamples := 0, 0
	for step := 1; step <= 8; step++ {
		total += 625_000
		now := t0.Add(time.Duration(step) * 50 * time.Millisecond)
		if _, ok := coarse.observe(total, now); ok {
			coarseSamples++
		}
		if _, ok := fine.observe(total, now); ok {
			fineSamples++
		}
	}

	assert.Equal(t, coarseSamples, 2)
	assert.Equal(t, fineSamples, 8)
	// Identical cumulative transfer, identical whole-transfer average.
	assert.Equal(t, megabitsPerSecond(total, 400*time.Millisecond), 100.0)
}
