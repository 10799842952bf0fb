package common

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Snap rounds v to the nearest 1/perUnit. Dividing last keeps decimal
// values such as 1.6 bit-identical to their literals.
func Snap(v, perUnit float64) float64 {
	if perUnit <= 0 {
		return v
	}
	return math.Round(v*perUnit) / perUnit
}
