package biquad

import "testing"

func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestNewChain(t *testing.T) {
	c := NewChain(twoSectionCoeffs(), 3)
	if c.NumSections() != 2 {
		t.Fatalf("NumSections: got %d, want 2", c.NumSections())
	}
	if c.Order() != 4 {
		t.Fatalf("Order: got %d, want 4", c.Order())
	}
}

func TestChain_EmptyPassesThrough(t *testing.T) {
	c := NewChain(nil, 3)
	buf := []float64{1, -2, 3}
	c.ProcessBlock(buf)
	if buf[0] != 1 || buf[1] != -2 || buf[2] != 3 {
		t.Fatalf("empty chain changed samples: %v", buf)
	}
	if got := c.ProcessSample(0.7); got != 0.7 {
		t.Fatalf("ProcessSample: got %v want 0.7", got)
	}
}

func TestChain_ProcessSample_MatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()
	s1 := NewSection(coeffs[0])
	s2 := NewSection(coeffs[1])
	chain := NewChain(coeffs, 0)

	for i, x := range []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8} {
		ref := s2.ProcessSample(s1.ProcessSample(x))
		if got := chain.ProcessSample(x); got != ref {
			t.Fatalf("sample %d: chain=%.15f ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_ProcessBlock_BitIdenticalToSample(t *testing.T) {
	a := NewChain(twoSectionCoeffs(), 0)
	b := NewChain(twoSectionCoeffs(), 0)

	buf := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	ref := make([]float64, len(buf))
	for i, x := range buf {
		ref[i] = b.ProcessSample(x)
	}

	a.ProcessBlock(buf)
	for i := range buf {
		if buf[i] != ref[i] {
			t.Fatalf("sample %d: block %v sample %v", i, buf[i], ref[i])
		}
	}
}

func TestChain_UpdateCoefficients_PreservesStateWhenSectionCountMatches(t *testing.T) {
	c := NewChain(twoSectionCoeffs(), 0)
	c.ProcessSample(1)
	before := c.Section(0).State()

	c.UpdateCoefficients(twoSectionCoeffs())
	if c.Section(0).State() != before {
		t.Fatal("state must be preserved when the section count is unchanged")
	}
}

func TestChain_UpdateCoefficients_ResizeWithinCapacity(t *testing.T) {
	c := NewChain(twoSectionCoeffs(), 3)
	c.ProcessSample(1)

	three := append(twoSectionCoeffs(), Passthrough())
	c.UpdateCoefficients(three)
	if c.NumSections() != 3 {
		t.Fatalf("NumSections: got %d want 3", c.NumSections())
	}
	for i := 0; i < 3; i++ {
		if st := c.Section(i).State(); st != [2]float64{} {
			t.Fatalf("section %d state not reset: %v", i, st)
		}
	}

	c.UpdateCoefficients(nil)
	if c.NumSections() != 0 {
		t.Fatalf("NumSections: got %d want 0", c.NumSections())
	}
}

func TestChain_ImpulseResponseKeepsState(t *testing.T) {
	c := NewChain(twoSectionCoeffs(), 0)
	c.ProcessSample(0.3)
	saved := c.Section(1).State()

	ir := c.ImpulseResponse(16)
	if len(ir) != 16 {
		t.Fatalf("len: got %d want 16", len(ir))
	}
	if c.Section(1).State() != saved {
		t.Fatal("ImpulseResponse must not touch the running state")
	}

	dc := 0.0
	for _, v := range c.ImpulseResponse(4096) {
		dc += v
	}
	want := c.Response(0, 48000)
	if !almostEqual(dc, real(want), 1e-9) {
		t.Fatalf("DC gain from IR %v, from response %v", dc, real(want))
	}
}

func BenchmarkChain_ProcessBlock(b *testing.B) {
	c := NewChain(twoSectionCoeffs(), 0)
	buf := make([]float64, 1024)
	for i := range buf {
		buf[i] = float64(i%7) * 0.1
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c.ProcessBlock(buf)
	}
}
