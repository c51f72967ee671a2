package extsort

import (
	"bytes"

	"golang.org/x/exp/constraints"
)

// A CompareFunc returns a negative number when a sorts before b, a positive
// number when a sorts after b, and zero when they are equal.
type CompareFunc[T any] func(a, b T) int

// Compare orders values by their natural ordering.  NaNs sort before all
// other floating-point values.
func Compare[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	// At least one of a and b is a NaN.
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	}
	return 1
}

// CompareBytes orders byte slices lexicographically.
func CompareBytes(a, b []byte) int {
	return bytes.Compare(a, b)
}

// Reverse returns a CompareFunc that inverts the order of cmp.
func Reverse[T any](cmp CompareFunc[T]) CompareFunc[T] {
	return func(a, b T) int {
		return cmp(b, a)
	}
}

// Less adapts cmp to the less-than form expected by sort routines.
func (cmp CompareFunc[T]) Less(a, b T) bool {
	return cmp(a, b) < 0
}
