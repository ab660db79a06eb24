package biquad

// Chain is an ordered cascade of biquad sections processed in series.
// An empty chain passes samples through unchanged.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade from zero or more coefficient sets. capacity
// reserves room for later UpdateCoefficients calls without reallocating.
func NewChain(coeffs []Coefficients, capacity int) *Chain {
	if capacity < len(coeffs) {
		capacity = len(coeffs)
	}
	c := &Chain{sections: make([]Section, 0, capacity)}
	c.UpdateCoefficients(coeffs)
	return c
}

// ProcessSample cascades x through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Order returns the total filter order (2 per full biquad section).
func (c *Chain) Order() int {
	return 2 * len(c.sections)
}

// NumSections returns the number of biquad sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// Section returns a pointer to the i-th section.
func (c *Chain) Section(i int) *Section {
	return &c.sections[i]
}

// UpdateCoefficients replaces the filter coefficients. When the number of
// sections is unchanged the delay-line state is preserved; otherwise every
// section starts from zero state.
func (c *Chain) UpdateCoefficients(coeffs []Coefficients) {
	if len(coeffs) == len(c.sections) {
		for i := range c.sections {
			c.sections[i].Coefficients = coeffs[i]
		}
		return
	}

	if cap(c.sections) >= len(coeffs) {
		c.sections = c.sections[:len(coeffs)]
	} else {
		c.sections = make([]Section, len(coeffs))
	}
	for i := range coeffs {
		c.sections[i] = Section{Coefficients: coeffs[i]}
	}
}
