// Package window provides the bounded sample buffer backing the live
// throughput and latency charts.
package window

// Window is a FIFO-evicting buffer of float64 samples with a fixed
// capacity. Pushing past capacity drops the oldest sample. The zero
// value is not usable; construct with New.
type Window struct {
	capacity int
	values   []float64
}

// New returns an empty window holding at most capacity samples.
// capacity must be positive.
func New(capacity int) *Window {
	if capacity <= 0 {
		panic("window: capacity must be positive")
	}
	return &Window{
		capacity: capacity,
		values:   make([]float64, 0, capacity),
	}
}

// Push appends value, evicting the oldest sample when full.
func (w *Window) Push(value float64) {
	if len(w.values) == w.capacity {
		copy(w.values, w.values[1:])
		w.values = w.values[:w.capacity-1]
	}
	w.values = append(w.values, value)
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	return len(w.values)
}

// Capacity returns the fixed capacity.
func (w *Window) Capacity() int {
	return w.capacity
}

// Snapshot returns a copy of the current contents in push order.
// The returned slice is owned by the caller.
func (w *Window) Snapshot() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}
