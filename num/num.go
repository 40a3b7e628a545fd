// Package num implements checked arithmetic on bounded unsigned integers.
package num

import "golang.org/x/exp/constraints"

// Unsigned is satisfied by all unsigned integer types.
type Unsigned interface {
	constraints.Unsigned
}

// Max will return the maximum representable value of T.
func Max[T Unsigned]() T {
	return ^T(0)
}

// CheckedAdd will return a + b. The second return value is false if the sum
// would exceed the range of T, in which case the returned value is zero.
func CheckedAdd[T Unsigned](a, b T) (T, bool) {
	// compute sum
	sum := a + b

	// unsigned addition wrapped if the sum is smaller than an operand
	if sum < a {
		return 0, false
	}

	return sum, true
}

// CheckedSub will return a - b. The second return value is false if the
// difference would be negative, in which case the returned value is zero.
func CheckedSub[T Unsigned](a, b T) (T, bool) {
	if b > a {
		return 0, false
	}

	return a - b, true
}

// CheckedInc will return a + 1 or false if a is already at the maximum.
func CheckedInc[T Unsigned](a T) (T, bool) {
	return CheckedAdd(a, 1)
}
