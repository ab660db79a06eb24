package biquad

import (
	"math"
	"math/cmplx"
)

// Response evaluates H(z) of the section at z = e^{jw}, w = 2*pi*freqHz/sampleRate.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	z1 := cmplx.Exp(complex(0, -2*math.Pi*freqHz/sampleRate))
	z2 := z1 * z1
	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return num / den
}

// Response is the product of the section responses.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	h := complex128(1)
	for i := range c.sections {
		h *= c.sections[i].Response(freqHz, sampleRate)
	}
	return h
}

// MagnitudeDB returns |H| of the cascade in dB.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// ImpulseResponse returns the first n samples of the cascade's impulse
// response. The running filter state is left untouched.
func (c *Chain) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}
	probe := Chain{sections: make([]Section, len(c.sections))}
	for i := range c.sections {
		probe.sections[i] = Section{Coefficients: c.sections[i].Coefficients}
	}
	ir := make([]float64, n)
	ir[0] = 1
	probe.ProcessBlock(ir)
	return ir
}
