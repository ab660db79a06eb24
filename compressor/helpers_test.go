package compressor

import (
	"testing"

	"github.com/stretchr/testify/require"

	applog "github.com/cwbudde/algo-comp/internal/log"
	"github.com/cwbudde/algo-comp/internal/testutil"
)

const testSampleRate = 48000.0

func newTestProcessor(t *testing.T, layout Layout, opts ...Option) *Processor {
	t.Helper()
	opts = append([]Option{WithLogger(applog.Discard())}, opts...)
	p, err := New(layout, testSampleRate, opts...)
	require.NoError(t, err)
	return p
}

func configure(t *testing.T, p *Processor, s Settings) Update {
	t.Helper()
	up, err := p.Configure(s)
	require.NoError(t, err)
	return up
}

// run feeds in through p in host blocks of the given sizes and returns the
// output. A nil second channel is allowed for mono processors.
func run(p *Processor, in [2][]float64, sc [2][]float64, sizes ...int) [2][]float64 {
	if len(sizes) == 0 {
		sizes = []int{len(in[0])}
	}
	var out [2][]float64
	for i := range p.Channels() {
		out[i] = make([]float64, len(in[i]))
	}

	var inBlocks, outBlocks, scBlocks [2][][]float64
	for i := range p.Channels() {
		inBlocks[i] = testutil.Split(in[i], sizes...)
		outBlocks[i] = testutil.Split(out[i], sizes...)
		if sc[i] != nil {
			scBlocks[i] = testutil.Split(sc[i], sizes...)
		}
	}

	for k := range inBlocks[0] {
		var b Block
		for i := range p.Channels() {
			b.In[i] = inBlocks[i][k]
			b.Out[i] = outBlocks[i][k]
			if scBlocks[i] != nil {
				b.Sidechain[i] = scBlocks[i][k]
			}
		}
		p.Process(&b)
	}
	return out
}

func stereoSignal(n int) [2][]float64 {
	l := testutil.DeterministicNoise(1, 0.5, n)
	r := testutil.DeterministicSine(220, testSampleRate, 0.9, n)
	for i := range r {
		if (i/3000)%2 == 1 {
			r[i] *= 0.05
		}
	}
	return [2][]float64{l, r}
}
