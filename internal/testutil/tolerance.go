package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and every pair differs by at most eps.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	requireSameLen(t, got, want)
	for i, w := range want {
		if d := math.Abs(got[i] - w); d > eps {
			t.Fatalf("sample %d: got %v, want %v (|diff| %v > %v)", i, got[i], w, d, eps)
		}
	}
}

// RequireBitIdentical fails t unless got and want hold the same bit
// patterns. Block and per-sample paths are compared with it.
func RequireBitIdentical(t testing.TB, got, want []float64) {
	t.Helper()
	requireSameLen(t, got, want)
	for i, w := range want {
		if math.Float64bits(got[i]) != math.Float64bits(w) {
			t.Fatalf("sample %d: got %v, want %v (bits differ)", i, got[i], w)
		}
	}
}

func requireSameLen(t testing.TB, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
}
