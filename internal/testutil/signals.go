// Package testutil generates reproducible test signals and compares sample
// buffers.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	w := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}
	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude) drawn
// from a generator seeded with seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// Impulse returns a unit impulse at pos. Out of range positions give silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	return Step(length, 0, value)
}

// Step returns a signal that is 0 before pos and level from pos on.
func Step(length, pos int, level float64) []float64 {
	out := make([]float64, length)
	for i := max(pos, 0); i < length; i++ {
		out[i] = level
	}
	return out
}

// Split cuts sig into consecutive blocks of the given sizes, cycling through
// sizes until sig is exhausted. The blocks share sig's backing array.
func Split(sig []float64, sizes ...int) [][]float64 {
	var blocks [][]float64
	for start, k := 0, 0; start < len(sig); k++ {
		end := min(start+sizes[k%len(sizes)], len(sig))
		blocks = append(blocks, sig[start:end])
		start = end
	}
	return blocks
}
