package compressor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-comp/dsp/dynamics"
	"github.com/cwbudde/algo-comp/dsp/sidechain"
	"github.com/cwbudde/algo-comp/internal/testutil"
)

func TestTopologyString(t *testing.T) {
	assert.Equal(t, "none", TopologyNone.String())
	assert.Equal(t, "both", TopologyBoth.String())
	assert.Equal(t, "Topology(7)", Topology(7).String())
}

func TestFeedbackSampleMatchesBlock(t *testing.T) {
	const n = 4096
	modes := []struct {
		name string
		mode sidechain.Mode
	}{
		{"peak", sidechain.ModePeak},
		{"rms", sidechain.ModeRMS},
		{"lowpass", sidechain.ModeLowPass},
		{"sma", sidechain.ModeSMA},
	}
	in := stereoSignal(n)

	for _, tt := range modes {
		t.Run(tt.name, func(t *testing.T) {
			cs := DefaultChannelSettings()
			cs.SidechainMode = tt.mode
			cs.SidechainSource = 5
			cs.HPFSlope = sidechain.Slope12
			cs.HPFFrequency = 80
			cs.LPFSlope = sidechain.Slope36
			cs.LPFFrequency = 9000
			cs.Preamp = 2
			cs.HoldTime = 3
			cs.ReleaseLevel = 0.3
			cs.AttackTime = 1
			cs.ReleaseTime = 30
			env := channelEnv{layout: LayoutLeftRight, outputGain: 1, sampleRate: testSampleRate}

			block, err := newChannel(2, testSampleRate, n)
			require.NoError(t, err)
			step, err := newChannel(2, testSampleRate, n)
			require.NoError(t, err)
			_, err = block.configure(&cs, env)
			require.NoError(t, err)
			_, err = step.configure(&cs, env)
			require.NoError(t, err)

			copy(block.in, in[0])
			copy(step.in, in[0])
			block.processBlock(in, n)
			for i := range n {
				s := step.processFeedbackSample(i, [2]float64{in[0][i], in[1][i]})
				require.Equal(t, step.scOut[i], s)
			}

			testutil.RequireBitIdentical(t, step.scOut, block.scOut)
			testutil.RequireBitIdentical(t, step.env, block.env)
			testutil.RequireBitIdentical(t, step.gain, block.gain)
			testutil.RequireBitIdentical(t, step.out, block.out)
		})
	}
}

func TestChunkSizeInvariance(t *testing.T) {
	ff, fb, ext := SidechainFeedForward, SidechainFeedBack, SidechainExternal
	tests := []struct {
		name     string
		layout   Layout
		types    [2]SidechainType
		topology Topology
	}{
		{"mono feed-forward", LayoutMono, [2]SidechainType{ff, ff}, TopologyNone},
		{"mono feedback", LayoutMono, [2]SidechainType{fb, ff}, TopologyFirst},
		{"lr none", LayoutLeftRight, [2]SidechainType{ff, ext}, TopologyNone},
		{"lr first", LayoutLeftRight, [2]SidechainType{fb, ff}, TopologyFirst},
		{"lr second", LayoutLeftRight, [2]SidechainType{ext, fb}, TopologySecond},
		{"lr both", LayoutLeftRight, [2]SidechainType{fb, fb}, TopologyBoth},
		{"independent both", LayoutStereoIndependent, [2]SidechainType{fb, fb}, TopologyBoth},
		{"linked feedback", LayoutStereoLinked, [2]SidechainType{fb, ff}, TopologyBoth},
		{"ms first", LayoutMidSide, [2]SidechainType{fb, ff}, TopologyFirst},
		{"ms both", LayoutMidSide, [2]SidechainType{fb, fb}, TopologyBoth},
	}

	const n = 12000
	in := stereoSignal(n)
	key := [2][]float64{
		testutil.DeterministicSine(60, testSampleRate, 1, n),
		testutil.DeterministicNoise(9, 0.8, n),
	}

	settings := func(layout Layout, types [2]SidechainType) Settings {
		s := DefaultSettings(layout)
		s.InputGain = 1.5
		s.StereoSplit = true
		s.SplitSource = 1
		for i := range s.Channels {
			c := &s.Channels[i]
			c.SidechainType = types[i]
			c.AttackTime = 2
			c.ReleaseTime = 40
			c.ReleaseLevel = 0.5
			c.HoldTime = 1
			c.DryWet = 70
			c.DryGain = 0.3
		}
		s.Channels[0].Lookahead = 1.5
		s.Channels[1].SidechainMode = sidechain.ModePeak
		s.Channels[1].Ratio = 8
		s.Channels[1].Mode = dynamics.ModeBoosting
		s.Channels[1].Listen = layout == LayoutMidSide
		return s
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings(tt.layout, tt.types)

			ref := newTestProcessor(t, tt.layout)
			up := configure(t, ref, s)
			require.Equal(t, tt.topology, up.Topology)
			want := run(ref, in, key)

			for _, chunk := range []int{1, 7, 256} {
				p := newTestProcessor(t, tt.layout, WithChunkSize(chunk))
				configure(t, p, s)
				got := run(p, in, key, 613, 1, 2048)
				for ch := range p.Channels() {
					testutil.RequireBitIdentical(t, got[ch], want[ch])
				}
			}
		})
	}
}

func TestFeedbackIsCausal(t *testing.T) {
	const n, pos = 48000, 1000
	p := newTestProcessor(t, LayoutLeftRight)
	s := DefaultSettings(LayoutLeftRight)
	s.Channels[0].SidechainType = SidechainFeedBack
	s.Channels[1].SidechainType = SidechainFeedBack
	up := configure(t, p, s)
	require.Equal(t, TopologyBoth, up.Topology)

	step := testutil.Step(n, pos, 1)
	out := run(p, [2][]float64{step, append([]float64(nil), step...)}, [2][]float64{}, 997)

	for ch := range 2 {
		assert.Equal(t, 1.0, out[ch][pos], "channel %d: the first step sample sees only silence", ch)
		assert.Less(t, out[ch][n-1], 0.7, "channel %d settles compressed", ch)
		assert.Greater(t, out[ch][n-1], 0.4, "channel %d feedback compresses less than feed-forward", ch)
	}
}
