package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{name: "inside", v: 0.5, lo: 0, hi: 1, want: 0.5},
		{name: "below", v: -1, lo: 0, hi: 1, want: 0},
		{name: "above", v: 2, lo: 0, hi: 1, want: 1},
		{name: "swapped", v: 2, lo: 1, hi: 0, want: 1},
		{name: "lookahead", v: 35, lo: 0, hi: 20, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Fatalf("Clamp() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ClampInt(12, 10, 1); got != 10 {
		t.Fatalf("ClampInt(12) swapped = %d, want 10", got)
	}
	if got := ClampInt(0, 1, 10); got != 1 {
		t.Fatalf("ClampInt(0) = %d, want 1", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(-3) {
		t.Fatal("-3 should be finite")
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if IsFinite(v) {
			t.Fatalf("%v must not be finite", v)
		}
	}
}

func TestDBConversions(t *testing.T) {
	for _, db := range []float64{-72, -12, 0, 6, 24} {
		if got := LinearToDB(DBToLinear(db)); math.Abs(got-db) > 1e-10 {
			t.Fatalf("LinearToDB(DBToLinear(%v)) = %v", db, got)
		}
	}
	if got := DBToLinear(-20); math.Abs(got-0.1) > 1e-15 {
		t.Fatalf("DBToLinear(-20) = %v, want 0.1", got)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestDurationConversions(t *testing.T) {
	tests := []struct {
		name string
		sr   float64
		ms   float64
		want int
	}{
		{name: "20ms@48k", sr: 48000, ms: 20, want: 960},
		{name: "20ms@44.1k", sr: 44100, ms: 20, want: 882},
		{name: "rounding", sr: 44100, ms: 0.03, want: 1},
		{name: "zero", sr: 48000, ms: 0, want: 0},
		{name: "negative", sr: 48000, ms: -5, want: 0},
		{name: "nan", sr: 48000, ms: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MillisToSamples(tt.sr, tt.ms); got != tt.want {
				t.Fatalf("MillisToSamples() = %d, want %d", got, tt.want)
			}
		})
	}

	if got := SecondsToSamples(48000, 5.0/400); got != 600 {
		t.Fatalf("SecondsToSamples() = %d, want 600", got)
	}
}
