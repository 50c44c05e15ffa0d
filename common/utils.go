package common

import "cmp"

// Coalesce returns the first argument that is not the zero value of T, or the zero value.
// Used to fill unset descriptor fields with defaults.
//
// Parameters:
//   - values: candidates in priority order
//
// Returns:
//   - T: the first non-zero candidate
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to [lo, hi]. When lo > hi the result is lo.
//
// Parameters:
//   - v: the value
//   - lo, hi: the inclusive bounds
//
// Returns:
//   - T: the clamped value
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
