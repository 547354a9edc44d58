package growbuf

import (
	"fmt"
	"math"
)

// Policy decides whether a store must grow and to what capacity.
// A zero Rate marks a fixed store that never grows.
type Policy struct {
	Rate float64
}

// Fixed reports whether the policy forbids growth.
func (p Policy) Fixed() bool {
	return p.Rate == 0
}

// Next returns the capacity needed to hold additional more units on top of used.
// If capacity already suffices it is returned unchanged.
//
// Growth targets (capacity + additional) * (1 + Rate), and never less than
// used + additional.
func (p Policy) Next(used, additional, capacity int) (int, error) {
	if used < 0 || additional < 0 || capacity < 0 || used > capacity {
		return 0, fmt.Errorf("%w: used=%d additional=%d capacity=%d", ErrInvalidArgument, used, additional, capacity)
	}
	if capacity-used >= additional {
		return capacity, nil
	}
	if p.Fixed() {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrFixedCapacity, additional, capacity-used)
	}

	need, ok := addOverflowSafe(used, additional)
	if !ok {
		return 0, fmt.Errorf("%w: overflow: used=%d + additional=%d", ErrAllocation, used, additional)
	}
	base, ok := addOverflowSafe(capacity, additional)
	if !ok {
		return 0, fmt.Errorf("%w: overflow: capacity=%d + additional=%d", ErrAllocation, capacity, additional)
	}

	grown := float64(base) * (1 + p.Rate)
	if grown >= math.MaxInt {
		return 0, fmt.Errorf("%w: overflow: growing %d by rate %g", ErrAllocation, base, p.Rate)
	}
	next := int(grown)
	if next < need {
		next = need
	}
	return next, nil
}

func validateRate(rate float64) error {
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: expansion rate %g", ErrInvalidArgument, rate)
	}
	return nil
}

// growSlice returns s resized to next elements, keeping every element of s,
// spare slots included. It reports false and returns s when next does not
// exceed len(s).
func growSlice[T any](s []T, next int) ([]T, bool) {
	if next <= len(s) {
		return s, false
	}
	grown := make([]T, next)
	copy(grown, s)
	return grown, true
}

// addOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func addOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// mulOverflowSafe multiplies two non-negative ints, returning ok = false on overflow.
func mulOverflowSafe(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a < 0 || b < 0 || a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}
