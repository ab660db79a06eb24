package compressor

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/stereo"
	"github.com/cwbudde/algo-comp/telemetry"
)

// Block is one buffer of audio handed to Process. In and Out hold one slice
// per channel and may alias. Sidechain holds the optional external detector
// input and Link the optional buffers shared by another processor.
type Block struct {
	In        [2][]float64
	Out       [2][]float64
	Sidechain [2][]float64
	Link      [2]*LinkBuffer
}

// LinkBuffer is a detector input published by another processor. Inactive
// buffers read as silence.
type LinkBuffer struct {
	Data   []float64
	Active bool
}

// Update reports the effect of a Configure call.
type Update struct {
	Latency        int
	LatencyChanged bool
	CurveChanged   [2]bool
	Topology       Topology
}

// Processor is a one- or two-channel compressor.
type Processor struct {
	layout     Layout
	sampleRate float64
	chunk      int
	logger     logrus.FieldLogger

	channels []*channel
	settings Settings
	inGain   float64
	latency  int
	topology Topology
	paused   bool
	msListen bool
	clear    bool

	silence []float64
	block   *Block
	offset  int
}

// New returns a processor for layout with default settings applied.
func New(layout Layout, sampleRate float64, opts ...Option) (*Processor, error) {
	if !layout.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayout, int(layout))
	}
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	cfg := applyOptions(sampleRate, opts)
	p := &Processor{
		layout:     layout,
		sampleRate: sampleRate,
		chunk:      cfg.ChunkSize,
		logger:     cfg.logger,
		silence:    make([]float64, cfg.ChunkSize),
	}

	n := layout.Channels()
	for range n {
		c, err := newChannel(n, sampleRate, p.chunk)
		if err != nil {
			return nil, fmt.Errorf("compressor channel: %w", err)
		}
		p.channels = append(p.channels, c)
	}

	if _, err := p.Configure(DefaultSettings(layout)); err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"layout":      layout.String(),
		"sample_rate": sampleRate,
		"chunk":       p.chunk,
	}).Debug("compressor created")
	return p, nil
}

// Layout returns the active layout.
func (p *Processor) Layout() Layout { return p.layout }

// Channels returns the number of signal channels.
func (p *Processor) Channels() int { return len(p.channels) }

// SampleRate returns the processing sample rate.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// Latency returns the processing delay in samples.
func (p *Processor) Latency() int { return p.latency }

// Topology returns the active feedback arrangement.
func (p *Processor) Topology() Topology { return p.topology }

// Settings returns the normalized settings last applied.
func (p *Processor) Settings() Settings { return p.settings }

// Configure applies s. Out-of-range values are clamped; non-finite values,
// unknown enumerations and a layout with a different channel count are
// rejected and leave the processor unchanged. Settings take effect at the
// next Process call.
func (p *Processor) Configure(s Settings) (Update, error) {
	if err := s.Validate(); err != nil {
		return Update{}, err
	}
	if s.Layout.Channels() != len(p.channels) {
		return Update{}, fmt.Errorf("%w: %s needs %d channels, processor has %d",
			ErrLayoutChannels, s.Layout, s.Layout.Channels(), len(p.channels))
	}
	s = s.normalized()

	env := channelEnv{
		layout:      s.Layout,
		split:       s.StereoSplit && s.Layout.Linked(),
		splitSource: s.SplitSource,
		outputGain:  s.OutputGain,
		sampleRate:  p.sampleRate,
	}

	var up Update
	latency := 0
	for i, c := range p.channels {
		cs := &s.Channels[i]
		if s.Layout.Linked() {
			cs = &s.Channels[0]
		}
		env.index = i
		changed, err := c.configure(cs, env)
		if err != nil {
			return Update{}, fmt.Errorf("%w: channel %d: %w", ErrInvalidSettings, i, err)
		}
		c.bypass.Set(s.Bypass)
		up.CurveChanged[i] = changed
		latency = max(latency, c.lookahead)
	}
	for _, c := range p.channels {
		c.alignDelays(latency)
	}

	up.Latency = latency
	up.LatencyChanged = latency != p.latency
	up.Topology = topologyOf(p.channels)

	p.layout = s.Layout
	p.inGain = s.InputGain
	p.paused = s.Pause
	p.msListen = s.MidSideListen
	p.latency = latency
	p.topology = up.Topology
	if s.Clear {
		p.clear = true
		s.Clear = false
	}
	p.settings = s

	entry := p.logger.WithFields(logrus.Fields{
		"layout":   s.Layout.String(),
		"latency":  latency,
		"topology": up.Topology.String(),
	})
	if up.LatencyChanged {
		entry.Info("compressor latency changed")
	} else {
		entry.Debug("compressor settings applied")
	}
	return up, nil
}

// SetSampleRate reallocates rate-dependent state and reapplies the current
// settings. Histories and delay lines are cleared.
func (p *Processor) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	for i, c := range p.channels {
		if err := c.setSampleRate(sampleRate); err != nil {
			return fmt.Errorf("compressor channel %d: %w", i, err)
		}
	}
	p.sampleRate = sampleRate
	p.logger.WithField("sample_rate", sampleRate).Info("compressor sample rate changed")

	_, err := p.Configure(p.settings)
	return err
}

// Process compresses one block. The number of samples processed is the
// shortest In or Out slice of the active channels.
func (p *Processor) Process(b *Block) {
	n := p.blockLen(b)
	p.block = b
	for p.offset = 0; p.offset < n; {
		k := min(p.chunk, n-p.offset)
		p.processChunk(b, k)
		p.offset += k
	}
	p.block = nil

	clearing := p.clear
	p.clear = false
	for _, c := range p.channels {
		c.publish(clearing)
	}
}

func (p *Processor) blockLen(b *Block) int {
	if b == nil {
		return 0
	}
	n := -1
	for i := range p.channels {
		l := min(len(b.In[i]), len(b.Out[i]))
		if n < 0 || l < n {
			n = l
		}
	}
	return max(n, 0)
}

func (p *Processor) processChunk(b *Block, n int) {
	off := p.offset
	chans := p.channels

	if p.layout == LayoutMidSide {
		m, s := chans[0], chans[1]
		stereo.Encode(m.in[:n], s.in[:n], b.In[0][off:off+n], b.In[1][off:off+n])
		vecmath.ScaleBlockInPlace(m.in[:n], p.inGain)
		vecmath.ScaleBlockInPlace(s.in[:n], p.inGain)
	} else {
		for i, c := range chans {
			vecmath.ScaleBlock(c.in[:n], b.In[i][off:off+n], p.inGain)
		}
	}
	for _, c := range chans {
		c.meterSignal(TraceInput, c.in[:n], p.paused)
	}

	dispatch[p.topology](p, n)

	for _, c := range chans {
		c.compensate(n)
		c.meterSignal(TraceSidechain, c.scOut[:n], p.paused)
		c.meterSignal(TraceGain, c.gain[:n], p.paused)
		c.meterSignal(TraceEnvelope, c.env[:n], p.paused)
	}

	if p.layout == LayoutMidSide {
		m, s := chans[0], chans[1]
		m.mix(n)
		s.mix(n)
		m.meterSignal(TraceOutput, m.out[:n], p.paused)
		s.meterSignal(TraceOutput, s.out[:n], p.paused)
		if !p.msListen {
			stereo.Decode(m.tmp[:n], s.tmp[:n], m.out[:n], s.out[:n])
			copy(m.out[:n], m.tmp[:n])
			copy(s.out[:n], s.tmp[:n])
		}
		for _, c := range chans {
			if c.listen {
				copy(c.out[:n], c.scOut[:n])
			}
		}
	} else {
		for _, c := range chans {
			if c.listen {
				copy(c.out[:n], c.scOut[:n])
			} else {
				c.mix(n)
			}
			c.meterSignal(TraceOutput, c.out[:n], p.paused)
		}
	}

	for i, c := range chans {
		c.dryDelay.Process(c.dry[:n], b.In[i][off:off+n])
		c.bypass.Process(b.Out[i][off:off+n], c.dry[:n], c.out[:n])
	}
}

// Meters returns the block meters of channel ch.
func (p *Processor) Meters(ch int) Meters {
	if ch < 0 || ch >= len(p.channels) {
		return Meters{}
	}
	return p.channels[ch].meters
}

// Dot returns the operating point of channel ch on its transfer curve.
func (p *Processor) Dot(ch int) Dot {
	if ch < 0 || ch >= len(p.channels) {
		return Dot{}
	}
	return p.channels[ch].dot
}

// Trace returns the snapshot mailbox of history t of channel ch, or nil.
func (p *Processor) Trace(ch int, t Trace) *telemetry.Mailbox {
	if ch < 0 || ch >= len(p.channels) || t < 0 || t >= numTraces {
		return nil
	}
	return p.channels[ch].traces[t]
}

// Curve returns the transfer curve mailbox of channel ch, or nil.
func (p *Processor) Curve(ch int) *telemetry.Mailbox {
	if ch < 0 || ch >= len(p.channels) {
		return nil
	}
	return p.channels[ch].curve
}

// Clear zeroes every history before the next snapshot.
func (p *Processor) Clear() {
	p.clear = true
}

// UISync marks every transfer curve for republishing, as a newly attached
// consumer needs. The request stays pending until the consumer has released
// the curve mesh. Traces are published on every Process call anyway.
func (p *Processor) UISync() {
	for _, c := range p.channels {
		c.curveDirty = true
	}
}

// Reset clears all signal state: detectors, envelopes, delay lines,
// feedback values, meters and histories. Settings are kept.
func (p *Processor) Reset() {
	for _, c := range p.channels {
		c.reset()
	}
}
