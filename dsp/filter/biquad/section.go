package biquad

// Coefficients of one second-order section with a0 normalized to 1.
// Sections run in Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Passthrough returns unity coefficients.
func Passthrough() Coefficients {
	return Coefficients{B0: 1}
}

// Section is one biquad with its filter state.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a cleared section.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
// The float64 conversions forbid fused multiply-add so results do not
// depend on the target architecture.
func (s *Section) ProcessSample(x float64) float64 {
	y := float64(s.B0*x) + s.d0
	s.d0 = float64(s.B1*x) - float64(s.A1*y) + s.d1
	s.d1 = float64(s.B2*x) - float64(s.A2*y)

	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// Reset clears the filter state.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// State returns the state pair [d0, d1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}
