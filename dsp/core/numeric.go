package core

import "math"

// Clamp limits v to [lo, hi]. The bounds may be given in either order.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return min(max(v, lo), hi)
}

// ClampInt is Clamp for integers.
func ClampInt(v, lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return min(max(v, lo), hi)
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts a level in dB to a linear amplitude.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts a linear amplitude to dB. Zero maps to -Inf and
// negative amplitudes to NaN.
func LinearToDB(linear float64) float64 {
	switch {
	case linear < 0:
		return math.NaN()
	case linear == 0:
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// MillisToSamples converts a duration in milliseconds to a whole number of
// samples, rounding to nearest. Negative and non-finite durations yield 0.
func MillisToSamples(sampleRate, ms float64) int {
	return SecondsToSamples(sampleRate, ms*0.001)
}

// SecondsToSamples is MillisToSamples for durations in seconds.
func SecondsToSamples(sampleRate, seconds float64) int {
	n := sampleRate * seconds
	if !IsFinite(n) || n <= 0 {
		return 0
	}
	return int(math.Round(n))
}
