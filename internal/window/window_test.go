package window

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestPushBelowCapacity(t *testing.T) {
	w := New(5)

	w.Push(1.0)
	w.Push(2.0)
	w.Push(3.0)

	assert.Equal(t, w.Len(), 3)
	assert.DeepEqual(t, w.Snapshot(), []float64{1.0, 2.0, 3.0})
}

func TestPushEvictsOldest(t *testing.T) {
	w := New(3)

	for _, v := range []float64{1, 2, 3, 4, 5} {
		w.Push(v)
	}

	assert.Equal(t, w.Len(), 3)
	assert.DeepEqual(t, w.Snapshot(), []float64{3.0, 4.0, 5.0})
}

func TestLenNeverExceedsCapacity(t *testing.T) {
	const capacity = 7

	w := New(capacity)

	for i := 0; i < 100; i++ {
		w.Push(float64(i))
		want := i + 1
		if want > capacity {
			want = capacity
		}
		assert.Equal(t, w.Len(), want)
	}

	// The survivors are the capacity most recent pushes, in push order.
	assert.DeepEqual(t, w.Snapshot(), []float64{93, 94, 95, 96, 97, 98, 99})
}

func TestSnapshotIsACopy(t *testing.T) {
	w := New(4)
	w.Push(10.0)
	w.Push(20.0)

	snap := w.Snapshot()
	snap[0] = -1.0
	w.Push(30.0)

	assert.DeepEqual(t, w.Snapshot(), []float64{10.0, 20.0, 30.0})
}

func TestEmptySnapshot(t *testing.T) {
	w := New(4)

	assert.Equal(t, w.Len(), 0)
	assert.Equal(t, len(w.Snapshot()), 0)
	assert.Equal(t, w.Capacity(), 4)
}
