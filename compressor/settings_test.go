package compressor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/dynamics"
	"github.com/cwbudde/algo-comp/dsp/sidechain"
)

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings(LayoutLeftRight)
	assert.NoError(t, s.Validate())
	assert.Equal(t, s, s.normalized())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"layout", func(s *Settings) { s.Layout = Layout(12) }},
		{"input gain NaN", func(s *Settings) { s.InputGain = math.NaN() }},
		{"output gain Inf", func(s *Settings) { s.OutputGain = math.Inf(1) }},
		{"ratio NaN", func(s *Settings) { s.Channels[1].Ratio = math.NaN() }},
		{"lookahead Inf", func(s *Settings) { s.Channels[0].Lookahead = math.Inf(-1) }},
		{"sidechain type", func(s *Settings) { s.Channels[0].SidechainType = SidechainType(9) }},
		{"sidechain mode", func(s *Settings) { s.Channels[0].SidechainMode = sidechain.Mode(-1) }},
		{"mode", func(s *Settings) { s.Channels[1].Mode = dynamics.Mode(5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings(LayoutLeftRight)
			tt.modify(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestNormalizedClamps(t *testing.T) {
	s := DefaultSettings(LayoutMono)
	c := &s.Channels[0]
	c.Lookahead = 100
	c.Ratio = 0.2
	c.Knee = 2
	c.Reactivity = 1000
	c.HPFFrequency = 1
	c.LPFFrequency = 1e6
	c.DryWet = 150
	c.ReleaseLevel = -1
	s.InputGain = -3

	n := s.normalized()
	got := n.Channels[0]
	assert.Equal(t, MaxLookaheadMs, got.Lookahead)
	assert.Equal(t, dynamics.MinRatio, got.Ratio)
	assert.Equal(t, dynamics.MaxKnee, got.Knee)
	assert.Equal(t, sidechain.MaxReactivityMs, got.Reactivity)
	assert.Equal(t, sidechain.MinFilterHz, got.HPFFrequency)
	assert.Equal(t, sidechain.MaxFilterHz, got.LPFFrequency)
	assert.Equal(t, 100.0, got.DryWet)
	assert.Equal(t, 0.0, got.ReleaseLevel)
	assert.Equal(t, 0.0, n.InputGain)
	assert.InDelta(t, -12, core.LinearToDB(got.AttackThreshold), 1e-9)
}
