package preset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-comp/compressor"
	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/dynamics"
	"github.com/cwbudde/algo-comp/dsp/sidechain"
)

// OffDB is the level at and below which a gain in decibels means silence.
const OffDB = -150.0

// ErrInvalid is returned for presets with unknown names or too many
// channels.
var ErrInvalid = errors.New("invalid preset")

// Filter is a sidechain pre-filter stage. A slope of 0 disables it.
type Filter struct {
	Slope int     `yaml:"slope"` // dB/oct: 0, 12, 24 or 36
	Hz    float64 `yaml:"hz"`
}

// Sidechain describes the detector of a channel.
type Sidechain struct {
	Type         string  `yaml:"type"`
	Mode         string  `yaml:"mode"`
	Source       string  `yaml:"source"`
	Listen       bool    `yaml:"listen,omitempty"`
	LookaheadMs  float64 `yaml:"lookahead_ms"`
	ReactivityMs float64 `yaml:"reactivity_ms"`
	PreampDB     float64 `yaml:"preamp_db"`
	HPF          Filter  `yaml:"hpf"`
	LPF          Filter  `yaml:"lpf"`
}

// Channel holds the settings of one channel.
type Channel struct {
	Sidechain Sidechain `yaml:"sidechain"`

	Mode             string  `yaml:"mode"`
	ThresholdDB      float64 `yaml:"threshold_db"`
	ReleaseDB        float64 `yaml:"release_db"` // relative to the threshold
	AttackMs         float64 `yaml:"attack_ms"`
	ReleaseMs        float64 `yaml:"release_ms"`
	HoldMs           float64 `yaml:"hold_ms"`
	Ratio            float64 `yaml:"ratio"`
	KneeDB           float64 `yaml:"knee_db"`
	BoostThresholdDB float64 `yaml:"boost_threshold_db"`
	BoostDB          float64 `yaml:"boost_db"`
	MakeupDB         float64 `yaml:"makeup_db"`
	DryDB            float64 `yaml:"dry_db"`
	WetDB            float64 `yaml:"wet_db"`
	DryWet           float64 `yaml:"drywet"`
}

// Preset is a complete, named compressor configuration.
type Preset struct {
	Name          string    `yaml:"name,omitempty"`
	Layout        string    `yaml:"layout"`
	Bypass        bool      `yaml:"bypass,omitempty"`
	InputDB       float64   `yaml:"input_db"`
	OutputDB      float64   `yaml:"output_db"`
	MidSideListen bool      `yaml:"ms_listen,omitempty"`
	StereoSplit   bool      `yaml:"stereo_split,omitempty"`
	SplitSource   string    `yaml:"split_source,omitempty"`
	Channels      []Channel `yaml:"channels"`
}

var (
	typeNames = map[compressor.SidechainType]string{
		compressor.SidechainFeedForward: "feed-forward",
		compressor.SidechainFeedBack:    "feed-back",
		compressor.SidechainExternal:    "external",
		compressor.SidechainLink:        "link",
	}
	// Selector names in the order the routing resolver decodes them.
	sourceNames      = []string{"middle", "side", "left", "right", "min", "max"}
	splitSourceNames = []string{"left/right", "right/left", "mid/side", "side/mid", "min", "max"}
	modeNames        = []string{"downward", "upward", "boosting"}
	detectorNames    = []string{"peak", "rms", "lowpass", "sma"}
)

// Default returns the default preset for layout.
func Default(layout compressor.Layout) *Preset {
	return FromSettings(compressor.DefaultSettings(layout))
}

// Load decodes a preset from r. Unknown fields are rejected.
func Load(r io.Reader) (*Preset, error) {
	p := &Preset{Layout: compressor.LayoutLeftRight.String()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(compressor.LayoutLeftRight), nil
		}
		return nil, fmt.Errorf("decode preset: %w", err)
	}
	return p, nil
}

// LoadFile reads a preset from a YAML file.
func LoadFile(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open preset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Write encodes p as YAML.
func (p *Preset) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	return enc.Close()
}

// UnmarshalYAML fills omitted channel fields with defaults.
func (c *Channel) UnmarshalYAML(n *yaml.Node) error {
	type plain Channel
	d := channelFromSettings(compressor.DefaultChannelSettings())
	if err := n.Decode((*plain)(&d)); err != nil {
		return err
	}
	*c = d
	return nil
}

// Settings converts p into engine settings.
func (p *Preset) Settings() (compressor.Settings, error) {
	layout, err := compressor.ParseLayout(p.Layout)
	if err != nil {
		return compressor.Settings{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(p.Channels) > layout.Channels() {
		return compressor.Settings{}, fmt.Errorf("%w: layout %s takes at most %d channels, got %d",
			ErrInvalid, layout, layout.Channels(), len(p.Channels))
	}

	s := compressor.DefaultSettings(layout)
	s.Bypass = p.Bypass
	s.InputGain = gain(p.InputDB)
	s.OutputGain = gain(p.OutputDB)
	s.MidSideListen = p.MidSideListen
	s.StereoSplit = p.StereoSplit
	if p.SplitSource != "" {
		if s.SplitSource, err = lookup(splitSourceNames, p.SplitSource, "split source", 0); err != nil {
			return compressor.Settings{}, err
		}
	}

	for i := range layout.Channels() {
		if len(p.Channels) == 0 {
			break
		}
		c := p.Channels[min(i, len(p.Channels)-1)]
		if s.Channels[i], err = c.settings(); err != nil {
			return compressor.Settings{}, fmt.Errorf("channel %d: %w", i, err)
		}
	}
	return s, nil
}

func (c *Channel) settings() (compressor.ChannelSettings, error) {
	cs := compressor.DefaultChannelSettings()
	var err error
	if cs.SidechainType, err = lookupType(c.Sidechain.Type); err != nil {
		return cs, err
	}
	if cs.SidechainSource, err = lookup(sourceNames, c.Sidechain.Source, "sidechain source", 0); err != nil {
		return cs, err
	}
	mode, err := lookup(detectorNames, c.Sidechain.Mode, "sidechain mode", int(sidechain.ModeRMS))
	if err != nil {
		return cs, err
	}
	cs.SidechainMode = sidechain.Mode(mode)
	if mode, err = lookup(modeNames, c.Mode, "mode", int(dynamics.ModeDownward)); err != nil {
		return cs, err
	}
	cs.Mode = dynamics.Mode(mode)
	if cs.HPFSlope, err = slope(c.Sidechain.HPF.Slope); err != nil {
		return cs, err
	}
	if cs.LPFSlope, err = slope(c.Sidechain.LPF.Slope); err != nil {
		return cs, err
	}

	cs.Listen = c.Sidechain.Listen
	cs.Lookahead = c.Sidechain.LookaheadMs
	cs.Reactivity = c.Sidechain.ReactivityMs
	cs.Preamp = gain(c.Sidechain.PreampDB)
	cs.HPFFrequency = c.Sidechain.HPF.Hz
	cs.LPFFrequency = c.Sidechain.LPF.Hz

	cs.AttackThreshold = gain(c.ThresholdDB)
	cs.ReleaseLevel = gain(c.ReleaseDB)
	cs.AttackTime = c.AttackMs
	cs.ReleaseTime = c.ReleaseMs
	cs.HoldTime = c.HoldMs
	cs.Ratio = c.Ratio
	cs.Knee = gain(c.KneeDB)
	cs.BoostThreshold = gain(c.BoostThresholdDB)
	cs.BoostAmount = gain(c.BoostDB)
	cs.Makeup = gain(c.MakeupDB)
	cs.DryGain = gain(c.DryDB)
	cs.WetGain = gain(c.WetDB)
	cs.DryWet = c.DryWet
	return cs, nil
}

// FromSettings converts engine settings into a preset. Linked and mono
// layouts produce a single channel entry.
func FromSettings(s compressor.Settings) *Preset {
	p := &Preset{
		Layout:        s.Layout.String(),
		Bypass:        s.Bypass,
		InputDB:       decibels(s.InputGain),
		OutputDB:      decibels(s.OutputGain),
		MidSideListen: s.MidSideListen,
		StereoSplit:   s.StereoSplit,
	}
	if s.StereoSplit {
		p.SplitSource = name(splitSourceNames, s.SplitSource)
	}
	n := s.Layout.Channels()
	if s.Layout.Linked() {
		n = 1
	}
	for i := range n {
		p.Channels = append(p.Channels, channelFromSettings(s.Channels[i]))
	}
	return p
}

func channelFromSettings(cs compressor.ChannelSettings) Channel {
	return Channel{
		Sidechain: Sidechain{
			Type:         typeNames[cs.SidechainType],
			Mode:         name(detectorNames, int(cs.SidechainMode)),
			Source:       name(sourceNames, cs.SidechainSource),
			Listen:       cs.Listen,
			LookaheadMs:  cs.Lookahead,
			ReactivityMs: cs.Reactivity,
			PreampDB:     decibels(cs.Preamp),
			HPF:          Filter{Slope: int(cs.HPFSlope) * 12, Hz: cs.HPFFrequency},
			LPF:          Filter{Slope: int(cs.LPFSlope) * 12, Hz: cs.LPFFrequency},
		},
		Mode:             name(modeNames, int(cs.Mode)),
		ThresholdDB:      decibels(cs.AttackThreshold),
		ReleaseDB:        decibels(cs.ReleaseLevel),
		AttackMs:         cs.AttackTime,
		ReleaseMs:        cs.ReleaseTime,
		HoldMs:           cs.HoldTime,
		Ratio:            cs.Ratio,
		KneeDB:           decibels(cs.Knee),
		BoostThresholdDB: decibels(cs.BoostThreshold),
		BoostDB:          decibels(cs.BoostAmount),
		MakeupDB:         decibels(cs.Makeup),
		DryDB:            decibels(cs.DryGain),
		WetDB:            decibels(cs.WetGain),
		DryWet:           cs.DryWet,
	}
}

// gain converts decibels to a linear gain; OffDB and below are silence.
func gain(db float64) float64 {
	if db <= OffDB {
		return 0
	}
	return core.DBToLinear(db)
}

// decibels converts a linear gain to decibels, rounded to 1/1000 dB so
// written presets stay readable.
func decibels(g float64) float64 {
	if g <= 0 {
		return OffDB
	}
	return math.Round(core.LinearToDB(g)*1000) / 1000
}

func slope(dbPerOct int) (sidechain.Slope, error) {
	switch dbPerOct {
	case 0:
		return sidechain.SlopeOff, nil
	case 12:
		return sidechain.Slope12, nil
	case 24:
		return sidechain.Slope24, nil
	case 36:
		return sidechain.Slope36, nil
	default:
		return 0, fmt.Errorf("%w: filter slope must be 0, 12, 24 or 36 dB/oct: %d", ErrInvalid, dbPerOct)
	}
}

func lookupType(s string) (compressor.SidechainType, error) {
	if s == "" {
		return compressor.SidechainFeedForward, nil
	}
	for t, n := range typeNames {
		if strings.EqualFold(s, n) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown sidechain type %q", ErrInvalid, s)
}

// lookup returns the index of s in names, or def for an empty s.
func lookup(names []string, s, what string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	for i, n := range names {
		if strings.EqualFold(s, n) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q (want one of %s)", ErrInvalid, what, s, strings.Join(names, ", "))
}

func name(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return names[0]
	}
	return names[i]
}
