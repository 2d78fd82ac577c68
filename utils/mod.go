package utils

import "cmp"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// ArgMax returns the index of the first greatest value, or -1 for an empty slice.
func ArgMax[T cmp.Ordered](values []T) int {
	best := -1
	for i, v := range values {
		if best == -1 || v > values[best] {
			best = i
		}
	}
	return best
}
