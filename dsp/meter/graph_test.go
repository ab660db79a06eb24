package meter

import (
	"testing"
)

func mustGraph(t *testing.T, points int) *Graph {
	t.Helper()
	g, err := NewGraph(points)
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	return g
}

func data(g *Graph) []float64 {
	out := make([]float64, g.Len())
	g.Data(out)
	return out
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewGraphValidation(t *testing.T) {
	if _, err := NewGraph(0); err == nil {
		t.Fatal("expected error for zero points")
	}
}

func TestReductionMethods(t *testing.T) {
	in := []float64{0.5, -0.9, 0.1, -0.2, 0.3, 0.05}

	tests := []struct {
		name   string
		method Method
		want   []float64
	}{
		{"absmax", MethodAbsMax, []float64{0, 0.9, 0.3}},
		{"absmin", MethodAbsMin, []float64{0, 0.1, 0.05}},
		{"max", MethodMax, []float64{0, 0.5, 0.3}},
		{"min", MethodMin, []float64{0, -0.9, -0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, 3)
			g.SetMethod(tt.method)
			g.SetPeriod(3)
			g.Process(in)

			if got := data(g); !equal(got, tt.want) {
				t.Fatalf("data = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartialPointsSpanBlocks(t *testing.T) {
	whole := mustGraph(t, 4)
	split := mustGraph(t, 4)
	whole.SetPeriod(5)
	split.SetPeriod(5)

	in := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}
	whole.Process(in)
	split.Process(in[:2])
	split.Process(in[2:9])
	split.Process(in[9:])

	if !equal(data(whole), data(split)) {
		t.Fatalf("whole %v split %v", data(whole), data(split))
	}
	want := []float64{0, 5, 10, 15}
	if !equal(data(whole), want) {
		t.Fatalf("data = %v, want %v", data(whole), want)
	}
}

func TestRollingOrderOldestFirst(t *testing.T) {
	g := mustGraph(t, 3)
	g.Process([]float64{1, 2, 3, 4, 5})

	if got, want := data(g), []float64{3, 4, 5}; !equal(got, want) {
		t.Fatalf("data = %v, want %v", got, want)
	}
}

func TestFillAndClear(t *testing.T) {
	g := mustGraph(t, 4)
	g.SetPeriod(2)
	g.Fill(1)
	g.Process([]float64{0.5})

	if got, want := data(g), []float64{1, 1, 1, 1}; !equal(got, want) {
		t.Fatalf("after fill: %v, want %v", got, want)
	}

	g.Clear()
	g.Process([]float64{0.25})
	if got, want := data(g), []float64{0, 0, 0, 0}; !equal(got, want) {
		t.Fatalf("after clear: %v, want %v", got, want)
	}
}

func TestInvalidMethodFallsBack(t *testing.T) {
	g := mustGraph(t, 1)
	g.SetMethod(Method(42))
	if g.Method() != MethodAbsMax {
		t.Fatalf("method = %v, want MethodAbsMax", g.Method())
	}
	g.SetPeriod(0)
	if g.Period() != 1 {
		t.Fatalf("period = %d, want 1", g.Period())
	}
}
