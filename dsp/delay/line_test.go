package delay

import (
	"testing"

	"github.com/cwbudde/algo-comp/internal/testutil"
)

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	if _, err := New(-1); err == nil {
		t.Fatal("expected error for capacity=-1")
	}

	d, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Capacity() != 0 {
		t.Fatalf("Capacity: got %d want 0", d.Capacity())
	}
}

func TestSetDelayClamps(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   int
		want int
	}{
		{in: 4, want: 4},
		{in: 16, want: 16},
		{in: 17, want: 16},
		{in: 1000, want: 16},
		{in: -3, want: 0},
	}
	for _, tt := range tests {
		d.SetDelay(tt.in)
		if d.Delay() != tt.want {
			t.Fatalf("SetDelay(%d): got %d want %d", tt.in, d.Delay(), tt.want)
		}
	}
}

// --- sample alignment ---

func TestZeroDelayPassesThrough(t *testing.T) {
	d, _ := New(8)
	in := testutil.DeterministicNoise(1, 1, 32)
	out := make([]float64, len(in))
	d.Process(out, in)

	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d: got %v want %v", i, out[i], in[i])
		}
	}
}

func TestImpulseAlignment(t *testing.T) {
	for _, delay := range []int{1, 5, 31, 32} {
		d, _ := New(32)
		d.SetDelay(delay)

		in := testutil.Impulse(64, 3)
		out := make([]float64, len(in))
		d.Process(out, in)

		for i, v := range out {
			want := 0.0
			if i == 3+delay {
				want = 1
			}
			if v != want {
				t.Fatalf("delay %d sample %d: got %v want %v", delay, i, v, want)
			}
		}
	}
}

func TestBlockMatchesPerSample(t *testing.T) {
	a, _ := New(64)
	b, _ := New(64)
	a.SetDelay(17)
	b.SetDelay(17)

	in := testutil.DeterministicNoise(7, 1, 300)
	block := make([]float64, len(in))
	// Uneven block boundaries.
	for start := 0; start < len(in); start += 37 {
		end := min(start+37, len(in))
		a.Process(block[start:end], in[start:end])
	}

	for i, x := range in {
		if got := b.ProcessSample(x); got != block[i] {
			t.Fatalf("sample %d: per-sample %v block %v", i, got, block[i])
		}
	}
}

func TestInPlace(t *testing.T) {
	d, _ := New(4)
	d.SetDelay(2)
	buf := []float64{1, 2, 3, 4, 5}
	d.Process(buf, buf)

	want := []float64{0, 0, 1, 2, 3}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("sample %d: got %v want %v", i, buf[i], want[i])
		}
	}
}

func TestProcessGain(t *testing.T) {
	d, _ := New(4)
	d.SetDelay(1)
	src := []float64{1, 2, 3, 4}
	gain := []float64{0.5, 0.5, 2, 0}
	dst := make([]float64, 4)
	d.ProcessGain(dst, src, gain)

	want := []float64{0, 0.5, 4, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("sample %d: got %v want %v", i, dst[i], want[i])
		}
	}
}

func TestReset(t *testing.T) {
	d, _ := New(4)
	d.SetDelay(4)

	d.ProcessSample(1)
	d.ProcessSample(2)
	d.Reset()

	if d.Delay() != 4 {
		t.Fatalf("delay after reset: got %d want 4", d.Delay())
	}
	for i := 0; i < 8; i++ {
		if got := d.ProcessSample(0); got != 0 {
			t.Fatalf("after reset sample %d: got %v want 0", i, got)
		}
	}
}

func BenchmarkProcess(b *testing.B) {
	d, _ := New(1024)
	d.SetDelay(960)
	buf := testutil.DeterministicNoise(3, 1, 4096)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Process(buf, buf)
	}
}
