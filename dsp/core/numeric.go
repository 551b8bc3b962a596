package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampInt limits value to the inclusive range [min, max].
func ClampInt(value, min, max int) int {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Jmap maps t from [0, 1] onto the line through lo and hi.
// t is not clamped, so values outside [0, 1] extrapolate.
func Jmap(t, lo, hi float64) float64 {
	return lo + t*(hi-lo)
}

// Normalize maps value from [lo, hi] to [0, 1] without clamping.
// A degenerate range maps everything to 0.
func Normalize(value, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}

	return (value - lo) / (hi - lo)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// IsFinite reports whether x is neither NaN nor Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
