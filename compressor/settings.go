package compressor

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/dynamics"
	"github.com/cwbudde/algo-comp/dsp/sidechain"
)

const (
	// MaxLookaheadMs is the longest supported lookahead.
	MaxLookaheadMs = 20.0
	// MaxPreamp is the largest detector preamp gain (+40 dB).
	MaxPreamp = 100.0
	// MaxMixGain bounds dry and wet gains (+24 dB).
	MaxMixGain = 15.848931924611133
)

var (
	minAttackThreshold = core.DBToLinear(-60)
	minBoostThreshold  = core.DBToLinear(-120)
	maxBoostThreshold  = core.DBToLinear(-60)
	maxBoostAmount     = core.DBToLinear(72)
	minMakeup          = core.DBToLinear(-60)
	maxMakeup          = core.DBToLinear(60)
)

// ChannelSettings holds the per-channel parameters. Levels are linear
// amplitudes, times are milliseconds.
type ChannelSettings struct {
	SidechainType   SidechainType
	SidechainMode   sidechain.Mode
	SidechainSource int // selector decoded by Resolve
	Listen          bool
	Lookahead       float64
	Reactivity      float64
	Preamp          float64
	HPFSlope        sidechain.Slope
	HPFFrequency    float64
	LPFSlope        sidechain.Slope
	LPFFrequency    float64

	Mode            dynamics.Mode
	AttackThreshold float64
	ReleaseLevel    float64 // release threshold relative to AttackThreshold
	AttackTime      float64
	ReleaseTime     float64
	HoldTime        float64
	Ratio           float64
	Knee            float64
	BoostThreshold  float64 // upward mode floor
	BoostAmount     float64 // boosting mode maximum gain
	Makeup          float64

	DryGain float64
	WetGain float64
	DryWet  float64 // percent of the processed signal in the mix
}

// Settings is the full processor configuration.
type Settings struct {
	Layout        Layout
	Bypass        bool
	InputGain     float64
	OutputGain    float64
	Pause         bool
	Clear         bool // one-shot: zero all histories before the next snapshot
	MidSideListen bool
	StereoSplit   bool
	SplitSource   int // selector used by both channels in split mode

	Channels [2]ChannelSettings
}

// DefaultChannelSettings returns a -12 dB, 4:1 downward compressor fed
// forward from an RMS detector.
func DefaultChannelSettings() ChannelSettings {
	return ChannelSettings{
		SidechainType:   SidechainFeedForward,
		SidechainMode:   sidechain.ModeRMS,
		Reactivity:      10,
		Preamp:          1,
		HPFFrequency:    sidechain.MinFilterHz,
		LPFFrequency:    sidechain.MaxFilterHz,
		Mode:            dynamics.ModeDownward,
		AttackThreshold: core.DBToLinear(-12),
		AttackTime:      20,
		ReleaseTime:     100,
		Ratio:           4,
		Knee:            core.DBToLinear(-6),
		BoostThreshold:  core.DBToLinear(-72),
		BoostAmount:     core.DBToLinear(6),
		Makeup:          1,
		WetGain:         1,
		DryWet:          100,
	}
}

// DefaultSettings returns unity-gain settings for layout with default
// channel settings.
func DefaultSettings(layout Layout) Settings {
	s := Settings{
		Layout:     layout,
		InputGain:  1,
		OutputGain: 1,
	}
	s.Channels[0] = DefaultChannelSettings()
	s.Channels[1] = DefaultChannelSettings()
	return s
}

// Validate reports settings that cannot be clamped into range: unknown
// enumerations and non-finite numbers.
func (s *Settings) Validate() error {
	if !s.Layout.valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidSettings, ErrInvalidLayout, int(s.Layout))
	}

	var errs []error
	check := func(name string, v float64) {
		if !core.IsFinite(v) {
			errs = append(errs, fmt.Errorf("%s must be finite: %f", name, v))
		}
	}
	check("input gain", s.InputGain)
	check("output gain", s.OutputGain)

	for i := range s.Channels {
		c := &s.Channels[i]
		prefix := fmt.Sprintf("channel %d ", i)
		if c.SidechainType < SidechainFeedForward || c.SidechainType > SidechainLink {
			errs = append(errs, fmt.Errorf("%ssidechain type is invalid: %d", prefix, c.SidechainType))
		}
		if c.SidechainMode < sidechain.ModePeak || c.SidechainMode > sidechain.ModeSMA {
			errs = append(errs, fmt.Errorf("%ssidechain mode is invalid: %d", prefix, c.SidechainMode))
		}
		if c.Mode < dynamics.ModeDownward || c.Mode > dynamics.ModeBoosting {
			errs = append(errs, fmt.Errorf("%smode is invalid: %d", prefix, c.Mode))
		}
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"lookahead", c.Lookahead},
			{"reactivity", c.Reactivity},
			{"preamp", c.Preamp},
			{"hpf frequency", c.HPFFrequency},
			{"lpf frequency", c.LPFFrequency},
			{"attack threshold", c.AttackThreshold},
			{"release level", c.ReleaseLevel},
			{"attack time", c.AttackTime},
			{"release time", c.ReleaseTime},
			{"hold time", c.HoldTime},
			{"ratio", c.Ratio},
			{"knee", c.Knee},
			{"boost threshold", c.BoostThreshold},
			{"boost amount", c.BoostAmount},
			{"makeup", c.Makeup},
			{"dry gain", c.DryGain},
			{"wet gain", c.WetGain},
			{"dry/wet", c.DryWet},
		} {
			check(prefix+f.name, f.v)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}

// normalized returns a copy with every value clamped into its supported
// range.
func (s Settings) normalized() Settings {
	s.InputGain = max(s.InputGain, 0)
	s.OutputGain = max(s.OutputGain, 0)
	for i := range s.Channels {
		s.Channels[i] = s.Channels[i].normalized()
	}
	return s
}

func (c ChannelSettings) normalized() ChannelSettings {
	c.Lookahead = core.Clamp(c.Lookahead, 0, MaxLookaheadMs)
	c.Reactivity = core.Clamp(c.Reactivity, 0, sidechain.MaxReactivityMs)
	c.Preamp = core.Clamp(c.Preamp, 0, MaxPreamp)
	c.HPFFrequency = core.Clamp(c.HPFFrequency, sidechain.MinFilterHz, sidechain.MaxFilterHz)
	c.LPFFrequency = core.Clamp(c.LPFFrequency, sidechain.MinFilterHz, sidechain.MaxFilterHz)

	c.AttackThreshold = core.Clamp(c.AttackThreshold, minAttackThreshold, 1)
	c.ReleaseLevel = core.Clamp(c.ReleaseLevel, 0, 1)
	c.AttackTime = core.Clamp(c.AttackTime, 0, dynamics.MaxAttackMs)
	c.ReleaseTime = core.Clamp(c.ReleaseTime, 0, dynamics.MaxReleaseMs)
	c.HoldTime = core.Clamp(c.HoldTime, 0, dynamics.MaxHoldMs)
	c.Ratio = core.Clamp(c.Ratio, dynamics.MinRatio, dynamics.MaxRatio)
	c.Knee = core.Clamp(c.Knee, dynamics.MinKnee, dynamics.MaxKnee)
	c.BoostThreshold = core.Clamp(c.BoostThreshold, minBoostThreshold, maxBoostThreshold)
	c.BoostAmount = core.Clamp(c.BoostAmount, 1, maxBoostAmount)
	c.Makeup = core.Clamp(c.Makeup, minMakeup, maxMakeup)

	c.DryGain = core.Clamp(c.DryGain, 0, MaxMixGain)
	c.WetGain = core.Clamp(c.WetGain, 0, MaxMixGain)
	c.DryWet = core.Clamp(c.DryWet, 0, 100)
	return c
}
