// Package ordering assigns fractional sort keys to items dropped between
// two siblings, so a reorder only ever rewrites the moved item.
package ordering

import "math"

// Initial is the order given to the first item of an empty column.
const Initial = 1.0

// Between returns the midpoint of prev and next. For prev < next the
// result lies strictly between them until float precision runs out,
// see Exhausted.
func Between(prev, next float64) float64 {
	return (prev + next) / 2
}

// After returns an order for insertion behind the sibling at prev.
func After(prev float64) float64 {
	return Between(prev, prev+1)
}

// Before returns an order for insertion ahead of the sibling at next.
// The head sentinel is 0; non-positive heads fall back to next-1.
func Before(next float64) float64 {
	if next <= 0 {
		return Between(next-1, next)
	}
	return Between(0, next)
}

// ForSlot returns the order for an item inserted at index into sorted,
// the ascending orders of its future siblings (the moved item excluded).
// Out of range indexes are clamped.
func ForSlot(sorted []float64, index int) float64 {
	if len(sorted) == 0 {
		return Initial
	}
	if index <= 0 {
		return Before(sorted[0])
	}
	if index >= len(sorted) {
		return After(sorted[len(sorted)-1])
	}
	return Between(sorted[index-1], sorted[index])
}

// Exhausted reports whether the midpoint of prev and next no longer lies
// strictly between them. Repeated insertions into the same gap halve it
// every time, so after roughly 50 drops the gap collapses.
func Exhausted(prev, next float64) bool {
	if math.IsNaN(prev) || math.IsNaN(next) || prev >= next {
		return true
	}
	mid := Between(prev, next)
	return !(prev < mid && mid < next)
}

// NeedsRespace reports whether any adjacent pair in sorted is Exhausted.
func NeedsRespace(sorted []float64) bool {
	for i := 1; i < len(sorted); i++ {
		if Exhausted(sorted[i-1], sorted[i]) {
			return true
		}
	}
	return false
}

// Respace returns n evenly spaced orders 1..n.
func Respace(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}
