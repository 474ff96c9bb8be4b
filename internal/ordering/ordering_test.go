package ordering_test

import (
	"math"
	"sort"
	"testing"

	"trellix/internal/ordering"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetween_StrictlyInside(t *testing.T) {
	bounds := [][2]float64{
		{0, 1},
		{1, 2},
		{2, 3},
		{-5, 5},
		{0.25, 0.5},
		{1e6, 1e6 + 1},
		{-3, -2.5},
	}

	for _, b := range bounds {
		got := ordering.Between(b[0], b[1])
		assert.Greater(t, got, b[0], "bounds %v", b)
		assert.Less(t, got, b[1], "bounds %v", b)
	}
}

func TestBetween_MoveToTail(t *testing.T) {
	// A(1), B(2): dropping A after B uses the virtual tail bound B+1.
	got := ordering.Between(2, 2+1)
	assert.Equal(t, 2.5, got)
	assert.Equal(t, 2.5, ordering.After(2))
}

func TestBefore(t *testing.T) {
	assert.Equal(t, 0.5, ordering.Before(1))
	assert.Equal(t, -0.5, ordering.Before(0))
	assert.Equal(t, -2.5, ordering.Before(-2))
}

func TestForSlot(t *testing.T) {
	sorted := []float64{1, 2, 4}

	assert.Equal(t, ordering.Initial, ordering.ForSlot(nil, 0))
	assert.Equal(t, 0.5, ordering.ForSlot(sorted, 0))
	assert.Equal(t, 1.5, ordering.ForSlot(sorted, 1))
	assert.Equal(t, 3.0, ordering.ForSlot(sorted, 2))
	assert.Equal(t, 4.5, ordering.ForSlot(sorted, 3))
	assert.Equal(t, 4.5, ordering.ForSlot(sorted, 42))
	assert.Equal(t, 0.5, ordering.ForSlot(sorted, -1))
}

func TestForSlot_SequenceStaysMonotonic(t *testing.T) {
	// Insert 200 items at pseudo-random slots; every insertion must land
	// exactly where it was aimed.
	var orders []float64
	seed := uint32(7)
	for i := 0; i < 200; i++ {
		seed = seed*1103515245 + 12345
		index := 0
		if len(orders) > 0 {
			index = int(seed>>8) % (len(orders) + 1)
		}
		o := ordering.ForSlot(orders, index)
		orders = append(orders, 0)
		copy(orders[index+1:], orders[index:])
		orders[index] = o
		require.True(t, sort.Float64sAreSorted(orders), "insert %d at %d", i, index)
	}
	for i := 1; i < len(orders); i++ {
		assert.Less(t, orders[i-1], orders[i])
	}
}

func TestExhausted_RepeatedHeadInsertions(t *testing.T) {
	// Always dropping at the same slot halves the gap each time; the
	// loop must hit the precision limit well before 2000 drops.
	prev, next := 1.0, 2.0
	drops := 0
	for ; drops < 2000 && !ordering.Exhausted(prev, next); drops++ {
		next = ordering.Between(prev, next)
	}
	assert.Less(t, drops, 2000)
	assert.Greater(t, drops, 40)
}

func TestExhausted_InvalidBounds(t *testing.T) {
	assert.True(t, ordering.Exhausted(2, 1))
	assert.True(t, ordering.Exhausted(1, 1))
	assert.True(t, ordering.Exhausted(math.NaN(), 1))
	assert.False(t, ordering.Exhausted(1, 2))
}

func TestNeedsRespace(t *testing.T) {
	assert.False(t, ordering.NeedsRespace(nil))
	assert.False(t, ordering.NeedsRespace([]float64{1, 1.5, 2}))
	assert.True(t, ordering.NeedsRespace([]float64{1, 2, 2}))
	assert.True(t, ordering.NeedsRespace([]float64{1, math.Nextafter(1, 2)}))
}

func TestRespace(t *testing.T) {
	assert.Nil(t, ordering.Respace(0))
	assert.Equal(t, []float64{1, 2, 3}, ordering.Respace(3))
}
