package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-comp/dsp/filter/biquad"
)

func TestButterworthSectionCount(t *testing.T) {
	tests := []struct {
		order    int
		sections int
	}{
		{order: 0, sections: 0},
		{order: 1, sections: 1},
		{order: 2, sections: 1},
		{order: 3, sections: 2},
		{order: 4, sections: 2},
		{order: 6, sections: 3},
	}

	for _, tt := range tests {
		for _, kind := range []Kind{Lowpass, Highpass} {
			if got := len(Butterworth(kind, 1000, tt.order, 48000)); got != tt.sections {
				t.Fatalf("kind %d order %d: got %d sections want %d", kind, tt.order, got, tt.sections)
			}
		}
	}
}

func TestButterworthCutoffIsMinus3dB(t *testing.T) {
	const sr = 48000.0
	for _, order := range []int{1, 2, 3, 4, 6} {
		for _, fc := range []float64{100, 1000, 8000} {
			for _, kind := range []Kind{Lowpass, Highpass} {
				c := biquad.NewChain(Butterworth(kind, fc, order, sr), 0)
				if got := c.MagnitudeDB(fc, sr); math.Abs(got+3.0103) > 0.01 {
					t.Fatalf("kind %d order %d fc %v: %v dB at cutoff", kind, order, fc, got)
				}
			}
		}
	}
}

func TestButterworthPassband(t *testing.T) {
	const sr = 48000.0
	lp := biquad.NewChain(Butterworth(Lowpass, 8000, 4, sr), 0)
	if got := lp.MagnitudeDB(100, sr); math.Abs(got) > 0.01 {
		t.Fatalf("lowpass passband: %v dB", got)
	}
	hp := biquad.NewChain(Butterworth(Highpass, 100, 4, sr), 0)
	if got := hp.MagnitudeDB(8000, sr); math.Abs(got) > 0.01 {
		t.Fatalf("highpass passband: %v dB", got)
	}
}

func TestButterworthSlope(t *testing.T) {
	const sr = 48000.0
	// Two octaves below the cutoff the highpass attenuates by ~order*12 dB.
	for _, order := range []int{2, 4, 6} {
		hp := biquad.NewChain(Butterworth(Highpass, 4000, order, sr), 0)
		got := hp.MagnitudeDB(1000, sr)
		want := -6.0206 * float64(order) * 2
		if math.Abs(got-want) > 1.5 {
			t.Fatalf("order %d: %v dB two octaves down, want about %v", order, got, want)
		}
	}
}

func TestInvalidFrequencyYieldsZeroCoefficients(t *testing.T) {
	for _, freq := range []float64{0, -5, 24000, 30000, math.NaN()} {
		cs := Butterworth(Lowpass, freq, 3, 48000)
		if len(cs) != 2 {
			t.Fatalf("freq %v: %d sections, want 2", freq, len(cs))
		}
		for _, c := range cs {
			if c != (biquad.Coefficients{}) {
				t.Fatalf("freq %v: expected zero coefficients, got %+v", freq, c)
			}
		}
	}
}

func TestIntoReusesCapacity(t *testing.T) {
	buf := make([]biquad.Coefficients, 0, 3)
	out := ButterworthInto(buf, Highpass, 200, 6, 48000)
	if len(out) != 3 || &out[0] != &buf[:1][0] {
		t.Fatal("expected the destination buffer to be reused")
	}
}
