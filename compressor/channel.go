package compressor

import (
	"errors"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-comp/dsp/bypass"
	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/delay"
	"github.com/cwbudde/algo-comp/dsp/dynamics"
	"github.com/cwbudde/algo-comp/dsp/meter"
	"github.com/cwbudde/algo-comp/dsp/sidechain"
	"github.com/cwbudde/algo-comp/telemetry"
)

// channel is the per-channel processing state.
type channel struct {
	sc     *sidechain.Sidechain
	comp   *dynamics.Compressor
	bypass *bypass.Bypass

	laDelay  *delay.Line // lookahead: delays the signal the gain is applied to
	inDelay  *delay.Line // aligns the dry path with the slowest channel
	outDelay *delay.Line // aligns the wet path with the slowest channel
	dryDelay *delay.Line // aligns the raw input used by bypass

	// Chunk work buffers.
	in    []float64
	out   []float64
	scOut []float64
	env   []float64
	gain  []float64
	dry   []float64
	tmp   []float64

	route     Route
	listen    bool
	mode      dynamics.Mode
	makeup    float64
	dryGain   float64
	wetGain   float64
	lookahead int
	feedback  float64 // provisional output of the previous sample

	graphs     [numTraces]*meter.Graph
	traces     [numTraces]*telemetry.Mailbox
	curve      *telemetry.Mailbox
	curveDirty bool
	meters     Meters
	dot        Dot
}

// channelEnv carries the processor-wide values a channel needs to apply its
// settings.
type channelEnv struct {
	index       int
	layout      Layout
	split       bool
	splitSource int
	outputGain  float64
	sampleRate  float64
}

// independentSource pins each detector of the independent stereo layout to
// its own channel.
var independentSource = [2]sidechain.Source{sidechain.SourceLeft, sidechain.SourceRight}

func newChannel(scChannels int, sampleRate float64, chunk int) (*channel, error) {
	sc, err := sidechain.New(scChannels, sampleRate)
	if err != nil {
		return nil, err
	}
	comp, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, err
	}
	bp, err := bypass.New(sampleRate)
	if err != nil {
		return nil, err
	}

	c := &channel{
		sc:         sc,
		comp:       comp,
		bypass:     bp,
		in:         make([]float64, chunk),
		out:        make([]float64, chunk),
		scOut:      make([]float64, chunk),
		env:        make([]float64, chunk),
		gain:       make([]float64, chunk),
		dry:        make([]float64, chunk),
		tmp:        make([]float64, chunk),
		makeup:     1,
		wetGain:    1,
		traces:     newTraceMailboxes(),
		curve:      telemetry.NewMailbox(CurvePoints),
		curveDirty: true,
	}
	if err := c.allocate(sampleRate); err != nil {
		return nil, err
	}
	return c, nil
}

// allocate builds the sample-rate dependent delay lines and histories.
func (c *channel) allocate(sampleRate float64) error {
	capacity := core.MillisToSamples(sampleRate, MaxLookaheadMs)
	lines := [4]**delay.Line{&c.laDelay, &c.inDelay, &c.outDelay, &c.dryDelay}
	for _, dst := range lines {
		d, err := delay.New(capacity)
		if err != nil {
			return err
		}
		*dst = d
	}

	graphs, err := newGraphs(sampleRate)
	if err != nil {
		return err
	}
	for t, g := range graphs {
		if c.graphs[t] != nil {
			g.SetMethod(c.graphs[t].Method())
		}
	}
	c.graphs = graphs
	return nil
}

func (c *channel) setSampleRate(sampleRate float64) error {
	if err := errors.Join(
		c.sc.SetSampleRate(sampleRate),
		c.comp.SetSampleRate(sampleRate),
		c.bypass.SetSampleRate(sampleRate),
	); err != nil {
		return err
	}
	if err := c.allocate(sampleRate); err != nil {
		return err
	}
	c.feedback = 0
	c.curveDirty = true
	return nil
}

// configure applies cs and reports whether the transfer curve changed.
// Applying the same settings twice reports no change the second time.
func (c *channel) configure(cs *ChannelSettings, e channelEnv) (bool, error) {
	selector := cs.SidechainSource
	if e.split {
		selector = e.splitSource
	}
	c.route = Resolve(cs.SidechainType, selector, e.index, e.split)
	if e.layout == LayoutStereoIndependent {
		c.route.Source = independentSource[e.index]
	}
	c.listen = cs.Listen

	stereoMode := sidechain.StereoModeLeftRight
	if e.layout == LayoutMidSide && (c.route.Kind == RouteInput || c.route.Kind == RouteFeedback) {
		stereoMode = sidechain.StereoModeMidSide
	}

	attack := cs.AttackThreshold
	boost := cs.BoostThreshold
	if cs.Mode == dynamics.ModeBoosting {
		boost = cs.BoostAmount
	}

	err := errors.Join(
		c.sc.SetMode(cs.SidechainMode),
		c.sc.SetSource(c.route.Source),
		c.sc.SetStereoMode(stereoMode),
		c.sc.SetReactivity(cs.Reactivity),
		c.sc.SetGain(cs.Preamp),
		c.comp.SetThresholds(attack, cs.ReleaseLevel*attack),
		c.comp.SetTimings(cs.AttackTime, cs.ReleaseTime),
		c.comp.SetHold(cs.HoldTime),
		c.comp.SetRatio(cs.Ratio),
		c.comp.SetKnee(cs.Knee),
		c.comp.SetBoostThreshold(boost),
		c.comp.SetMode(cs.Mode),
	)
	if err != nil {
		return false, err
	}
	c.sc.PreFilter().Configure(cs.HPFSlope, cs.HPFFrequency, cs.LPFSlope, cs.LPFFrequency)

	c.laDelay.SetDelay(core.MillisToSamples(e.sampleRate, cs.Lookahead))
	c.lookahead = c.laDelay.Delay()

	c.mode = cs.Mode
	if cs.Mode == dynamics.ModeDownward {
		c.graphs[TraceGain].SetMethod(meter.MethodAbsMin)
	} else {
		c.graphs[TraceGain].SetMethod(meter.MethodAbsMax)
	}

	drywet := cs.DryWet * 0.01
	c.dryGain = (cs.DryGain*drywet + 1 - drywet) * e.outputGain
	c.wetGain = cs.WetGain * cs.Makeup * drywet * e.outputGain

	changed := c.comp.TakeModified()
	if cs.Makeup != c.makeup {
		c.makeup = cs.Makeup
		changed = true
	}
	if changed {
		c.curveDirty = true
	}
	return changed, nil
}

// alignDelays sets the compensation delays for the processor latency.
func (c *channel) alignDelays(latency int) {
	c.inDelay.SetDelay(latency)
	c.outDelay.SetDelay(latency - c.lookahead)
	c.dryDelay.SetDelay(latency)
}

// processBlock runs the detector and dynamics over n samples of src and
// writes the undelayed gain-scaled input to out.
func (c *channel) processBlock(src [2][]float64, n int) {
	c.sc.Process(c.scOut[:n], src)
	c.comp.Process(c.gain[:n], c.env[:n], c.scOut[:n])
	vecmath.MulBlock(c.out[:n], c.gain[:n], c.in[:n])
}

// processFeedbackSample advances the channel by one sample using the
// previous output pair fb as detector input. It produces the same gain,
// envelope and output processBlock would for that detector input.
func (c *channel) processFeedbackSample(i int, fb [2]float64) float64 {
	s := c.sc.ProcessSample(fb)
	c.scOut[i] = s
	c.gain[i], c.env[i] = c.comp.ProcessSample(s)
	c.out[i] = c.gain[i] * c.in[i]
	return s
}

// compensate applies the gain to the lookahead-delayed input and aligns the
// dry and wet paths.
func (c *channel) compensate(n int) {
	c.laDelay.ProcessGain(c.out[:n], c.in[:n], c.gain[:n])
	c.inDelay.Process(c.in[:n], c.in[:n])
	c.outDelay.Process(c.out[:n], c.out[:n])
}

// mix replaces out with out·wetGain + in·dryGain.
func (c *channel) mix(n int) {
	vecmath.ScaleBlock(c.tmp[:n], c.in[:n], c.dryGain)
	vecmath.ScaleBlockInPlace(c.out[:n], c.wetGain)
	vecmath.AddBlockInPlace(c.out[:n], c.tmp[:n])
}

// meterSignal updates the block meter and, unless paused, the history of t.
func (c *channel) meterSignal(t Trace, buf []float64, paused bool) {
	peak := vecmath.MaxAbs(buf)
	switch t {
	case TraceInput:
		c.meters.Input = peak
	case TraceSidechain:
		c.meters.Sidechain = peak
	case TraceEnvelope:
		c.meters.Envelope = peak
	case TraceGain:
		c.meters.Gain = peak
	case TraceOutput:
		c.meters.Output = peak
	}
	if !paused {
		c.graphs[t].Process(buf)
	}
}

func (c *channel) reset() {
	c.sc.Reset()
	c.comp.Reset()
	c.bypass.Snap()
	for _, d := range []*delay.Line{c.laDelay, c.inDelay, c.outDelay, c.dryDelay} {
		d.Reset()
	}
	for _, g := range c.graphs {
		g.Clear()
	}
	c.graphs[TraceGain].Fill(1)
	c.feedback = 0
	c.meters = Meters{}
	c.dot = Dot{}
}
