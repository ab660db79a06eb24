package sidechain

import (
	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/filter/biquad"
	"github.com/cwbudde/algo-comp/dsp/filter/design"
)

// Slope selects a Butterworth pre-filter steepness.
type Slope int

const (
	SlopeOff Slope = iota
	// Slope12 is 12 dB/oct, second order.
	Slope12
	// Slope24 is 24 dB/oct, fourth order.
	Slope24
	// Slope36 is 36 dB/oct, sixth order.
	Slope36
)

const (
	// MinFilterHz and MaxFilterHz bound the pre-filter cutoff frequencies.
	MinFilterHz = 10.0
	MaxFilterHz = 20000.0

	maxSectionsPerFilter = 3
)

// PreFilter is a highpass/lowpass Butterworth pair applied to the detector
// input before level following.
type PreFilter struct {
	sampleRate float64

	hpfSlope, lpfSlope Slope
	hpfFreq, lpfFreq   float64

	chain  *biquad.Chain
	coeffs []biquad.Coefficients
	lp     []biquad.Coefficients
}

// NewPreFilter returns a pre-filter with both filters disabled.
func NewPreFilter(sampleRate float64) *PreFilter {
	return &PreFilter{
		sampleRate: sampleRate,
		hpfFreq:    MinFilterHz,
		lpfFreq:    MaxFilterHz,
		chain:      biquad.NewChain(nil, 2*maxSectionsPerFilter),
		coeffs:     make([]biquad.Coefficients, 0, 2*maxSectionsPerFilter),
		lp:         make([]biquad.Coefficients, 0, maxSectionsPerFilter),
	}
}

// Configure sets slope and cutoff of both filters and reports whether the
// response changed. Slopes outside the known range disable the filter and
// frequencies are clamped to [MinFilterHz, MaxFilterHz] and below Nyquist.
func (f *PreFilter) Configure(hpfSlope Slope, hpfHz float64, lpfSlope Slope, lpfHz float64) bool {
	hpfSlope = clampSlope(hpfSlope)
	lpfSlope = clampSlope(lpfSlope)
	hpfHz = f.clampFreq(hpfHz)
	lpfHz = f.clampFreq(lpfHz)

	if hpfSlope == f.hpfSlope && lpfSlope == f.lpfSlope && hpfHz == f.hpfFreq && lpfHz == f.lpfFreq {
		return false
	}

	f.hpfSlope, f.lpfSlope = hpfSlope, lpfSlope
	f.hpfFreq, f.lpfFreq = hpfHz, lpfHz
	f.redesign()
	return true
}

// SetSampleRate redesigns both filters for a new sample rate.
func (f *PreFilter) SetSampleRate(sampleRate float64) {
	f.sampleRate = sampleRate
	f.hpfFreq = f.clampFreq(f.hpfFreq)
	f.lpfFreq = f.clampFreq(f.lpfFreq)
	f.redesign()
	f.chain.Reset()
}

// Enabled reports whether any filter is active.
func (f *PreFilter) Enabled() bool {
	return f.chain.NumSections() > 0
}

// ProcessSample filters one sample.
func (f *PreFilter) ProcessSample(x float64) float64 {
	return f.chain.ProcessSample(x)
}

// Reset clears filter state.
func (f *PreFilter) Reset() {
	f.chain.Reset()
}

// MagnitudeDB returns the combined magnitude response at freqHz.
func (f *PreFilter) MagnitudeDB(freqHz float64) float64 {
	return f.chain.MagnitudeDB(freqHz, f.sampleRate)
}

// ImpulseResponse returns n samples of the combined impulse response without
// disturbing filter state.
func (f *PreFilter) ImpulseResponse(n int) []float64 {
	return f.chain.ImpulseResponse(n)
}

func (f *PreFilter) redesign() {
	f.coeffs = design.ButterworthInto(f.coeffs, design.Highpass, f.hpfFreq, 2*int(f.hpfSlope), f.sampleRate)
	f.lp = design.ButterworthInto(f.lp, design.Lowpass, f.lpfFreq, 2*int(f.lpfSlope), f.sampleRate)
	f.coeffs = append(f.coeffs, f.lp...)
	f.chain.UpdateCoefficients(f.coeffs)
}

func (f *PreFilter) clampFreq(hz float64) float64 {
	if !core.IsFinite(hz) {
		hz = MinFilterHz
	}
	return core.Clamp(hz, MinFilterHz, core.Clamp(0.45*f.sampleRate, MinFilterHz, MaxFilterHz))
}

func clampSlope(s Slope) Slope {
	if s < SlopeOff || s > Slope36 {
		return SlopeOff
	}
	return s
}
