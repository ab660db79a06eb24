//nolint:funcorder
package sidechain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/stereo"
)

// Mode selects the level-following algorithm.
type Mode int

const (
	// ModePeak follows the absolute sample value.
	ModePeak Mode = iota
	// ModeRMS computes a moving RMS over the reactivity window.
	ModeRMS
	// ModeLowPass smooths the absolute value with a one-pole lowpass.
	ModeLowPass
	// ModeSMA computes a simple moving average of the absolute value.
	ModeSMA
)

var modeNames = [...]string{
	ModePeak:    "peak",
	ModeRMS:     "rms",
	ModeLowPass: "lowpass",
	ModeSMA:     "sma",
}

func (m Mode) String() string {
	if m < ModePeak || m > ModeSMA {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Source selects how two channels are combined into the detector input.
type Source int

const (
	SourceMiddle Source = iota
	SourceSide
	SourceLeft
	SourceRight
	SourceMin
	SourceMax
)

var sourceNames = [...]string{
	SourceMiddle: "middle",
	SourceSide:   "side",
	SourceLeft:   "left",
	SourceRight:  "right",
	SourceMin:    "min",
	SourceMax:    "max",
}

func (s Source) String() string {
	if s < SourceMiddle || s > SourceMax {
		return fmt.Sprintf("Source(%d)", int(s))
	}
	return sourceNames[s]
}

// StereoMode tells the sidechain whether its two inputs carry left/right or
// mid/side signals.
type StereoMode int

const (
	StereoModeLeftRight StereoMode = iota
	StereoModeMidSide
)

const (
	// MaxReactivityMs is the longest supported averaging window.
	MaxReactivityMs = 250.0

	defaultReactivityMs = 10.0
)

// Sidechain is a level detector for one compressor channel.
type Sidechain struct {
	channels   int
	sampleRate float64

	mode         Mode
	source       Source
	stereoMode   StereoMode
	reactivityMs float64
	gain         float64

	// Averaging state. history holds squared (RMS) or absolute (SMA) values.
	history []float64
	head    int
	window  int
	sum     float64
	tau     float64
	lpf     float64

	eq *PreFilter
}

// New returns a sidechain for one or two input channels.
func New(channels int, sampleRate float64) (*Sidechain, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("sidechain channel count must be 1 or 2: %d", channels)
	}
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("sidechain sample rate must be positive and finite: %f", sampleRate)
	}

	s := &Sidechain{
		channels:     channels,
		mode:         ModeRMS,
		source:       SourceMiddle,
		reactivityMs: defaultReactivityMs,
		gain:         1,
	}
	s.eq = NewPreFilter(sampleRate)
	s.setSampleRate(sampleRate)
	return s, nil
}

// Channels returns the number of input channels.
func (s *Sidechain) Channels() int { return s.channels }

// Mode returns the level-following mode.
func (s *Sidechain) Mode() Mode { return s.mode }

// PreFilter returns the detector pre-filter.
func (s *Sidechain) PreFilter() *PreFilter { return s.eq }

// SetSampleRate reallocates the averaging history and redesigns the
// pre-filter. State is cleared.
func (s *Sidechain) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("sidechain sample rate must be positive and finite: %f", sampleRate)
	}
	s.setSampleRate(sampleRate)
	s.eq.SetSampleRate(sampleRate)
	return nil
}

func (s *Sidechain) setSampleRate(sampleRate float64) {
	s.sampleRate = sampleRate
	s.history = make([]float64, core.MillisToSamples(sampleRate, MaxReactivityMs)+1)
	s.updateWindow()
	s.Reset()
}

// SetMode selects the level-following algorithm. Changing the mode clears
// averaging state.
func (s *Sidechain) SetMode(mode Mode) error {
	if mode < ModePeak || mode > ModeSMA {
		return fmt.Errorf("sidechain mode is invalid: %d", mode)
	}
	if mode != s.mode {
		s.mode = mode
		s.Reset()
	}
	return nil
}

// SetSource selects how the two inputs are combined.
func (s *Sidechain) SetSource(source Source) error {
	if source < SourceMiddle || source > SourceMax {
		return fmt.Errorf("sidechain source is invalid: %d", source)
	}
	s.source = source
	return nil
}

// SetStereoMode declares whether inputs are left/right or mid/side.
func (s *Sidechain) SetStereoMode(mode StereoMode) error {
	if mode != StereoModeLeftRight && mode != StereoModeMidSide {
		return fmt.Errorf("sidechain stereo mode is invalid: %d", mode)
	}
	s.stereoMode = mode
	return nil
}

// SetReactivity sets the averaging window in milliseconds, clamped to
// [0, MaxReactivityMs]. The running sum is rebuilt from history so the
// detector output stays continuous.
func (s *Sidechain) SetReactivity(ms float64) error {
	if !core.IsFinite(ms) {
		return fmt.Errorf("sidechain reactivity must be finite: %f", ms)
	}
	ms = core.Clamp(ms, 0, MaxReactivityMs)
	if ms == s.reactivityMs {
		return nil
	}
	s.reactivityMs = ms
	s.updateWindow()
	s.resum()
	return nil
}

// SetGain sets the linear preamp gain applied before filtering.
func (s *Sidechain) SetGain(gain float64) error {
	if gain < 0 || !core.IsFinite(gain) {
		return fmt.Errorf("sidechain gain must be non-negative and finite: %f", gain)
	}
	s.gain = gain
	return nil
}

// Reset clears averaging and filter state.
func (s *Sidechain) Reset() {
	clear(s.history)
	s.head = 0
	s.sum = 0
	s.lpf = 0
	s.eq.Reset()
}

// Process writes one detector value per sample to dst. in[1] is ignored for
// single-channel sidechains and may be nil. Both inputs must be at least
// len(dst) long.
func (s *Sidechain) Process(dst []float64, in [2][]float64) {
	if len(dst) == 0 {
		return
	}
	l := in[0][:len(dst)]
	if s.channels == 1 {
		for i, x := range l {
			dst[i] = s.follow(s.prefilter(x * s.gain))
		}
		return
	}

	r := in[1][:len(dst)]
	for i, x := range l {
		dst[i] = s.follow(s.prefilter(s.combine(x, r[i]) * s.gain))
	}
}

func (s *Sidechain) prefilter(x float64) float64 {
	if !s.eq.Enabled() {
		return x
	}
	return s.eq.ProcessSample(x)
}

// ProcessSample returns the detector value for one input frame.
func (s *Sidechain) ProcessSample(in [2]float64) float64 {
	x := in[0]
	if s.channels == 2 {
		x = s.combine(in[0], in[1])
	}
	return s.follow(s.prefilter(x * s.gain))
}

func (s *Sidechain) combine(a, b float64) float64 {
	var l, r float64
	if s.stereoMode == StereoModeMidSide {
		switch s.source {
		case SourceMiddle:
			return a
		case SourceSide:
			return b
		}
		l, r = stereo.DecodeSample(a, b)
	} else {
		l, r = a, b
	}

	switch s.source {
	case SourceSide:
		_, side := stereo.EncodeSample(l, r)
		return side
	case SourceLeft:
		return l
	case SourceRight:
		return r
	case SourceMin:
		return math.Min(math.Abs(l), math.Abs(r))
	case SourceMax:
		return math.Max(math.Abs(l), math.Abs(r))
	default:
		mid, _ := stereo.EncodeSample(l, r)
		return mid
	}
}

func (s *Sidechain) follow(x float64) float64 {
	switch s.mode {
	case ModePeak:
		return math.Abs(x)
	case ModeLowPass:
		s.lpf += float64(s.tau * (math.Abs(x) - s.lpf))
		return s.lpf
	case ModeRMS:
		return math.Sqrt(s.push(x*x) / float64(s.window))
	default:
		return s.push(math.Abs(x)) / float64(s.window)
	}
}

// push appends v to the history ring and returns the non-negative running
// sum over the window.
func (s *Sidechain) push(v float64) float64 {
	size := len(s.history)
	tail := s.head - s.window
	if tail < 0 {
		tail += size
	}
	s.sum += v - s.history[tail]
	s.history[s.head] = v

	s.head++
	if s.head >= size {
		s.head = 0
		s.resum()
	}
	if s.sum < 0 {
		s.sum = 0
	}
	return s.sum
}

// resum recomputes the running sum to discard accumulated rounding error.
func (s *Sidechain) resum() {
	size := len(s.history)
	sum := 0.0
	for k := 1; k <= s.window; k++ {
		i := s.head - k
		if i < 0 {
			i += size
		}
		sum += s.history[i]
	}
	s.sum = sum
}

func (s *Sidechain) updateWindow() {
	n := core.MillisToSamples(s.sampleRate, s.reactivityMs)
	s.window = core.ClampInt(n, 1, len(s.history)-1)

	s.tau = 1
	if n > 1 {
		s.tau = 1 - math.Exp(-math.Ln2/float64(n))
	}
}
