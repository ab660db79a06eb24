package design

import (
	"math"

	"github.com/cwbudde/algo-comp/dsp/filter/biquad"
)

// Kind selects the pass band of a design.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
)

// Butterworth designs a Butterworth cascade of the given order.
// Odd orders end with a first-order section (B2=A2=0).
func Butterworth(kind Kind, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return ButterworthInto(nil, kind, freq, order, sampleRate)
}

// ButterworthInto is Butterworth appending into dst[:0], reusing its
// capacity. A cutoff outside (0, Nyquist) yields zero coefficients for
// every section.
func ButterworthInto(dst []biquad.Coefficients, kind Kind, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	dst = dst[:0]
	if order <= 0 {
		return dst
	}

	w0, ok := angular(freq, sampleRate)
	for k := order/2 - 1; k >= 0; k-- {
		var c biquad.Coefficients
		if ok {
			c = secondOrder(kind, w0, sectionQ(order, k))
		}
		dst = append(dst, c)
	}
	if order%2 != 0 {
		var c biquad.Coefficients
		if ok {
			c = firstOrder(kind, w0)
		}
		dst = append(dst, c)
	}
	return dst
}

// sectionQ is the quality factor of pole pair k of an order-n prototype.
func sectionQ(n, k int) float64 {
	return 1 / (2 * math.Sin(math.Pi*float64(2*k+1)/float64(2*n)))
}

func angular(freq, sampleRate float64) (float64, bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, false
	}
	if !(freq > 0) || freq >= sampleRate/2 {
		return 0, false
	}
	return 2 * math.Pi * freq / sampleRate, true
}

// secondOrder is the bilinear-transformed second-order section with
// quality factor q (RBJ cookbook form).
func secondOrder(kind Kind, w0, q float64) biquad.Coefficients {
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha

	var b0, b1 float64
	if kind == Highpass {
		b0, b1 = (1+cw)/2, -(1 + cw)
	} else {
		b0, b1 = (1-cw)/2, 1-cw
	}
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b0 / a0,
		A1: -2 * cw / a0,
		A2: (1 - alpha) / a0,
	}
}

func firstOrder(kind Kind, w0 float64) biquad.Coefficients {
	k := math.Tan(w0 / 2)
	norm := 1 / (1 + k)

	c := biquad.Coefficients{A1: (k - 1) * norm}
	if kind == Highpass {
		c.B0, c.B1 = norm, -norm
	} else {
		c.B0, c.B1 = k*norm, k*norm
	}
	return c
}
