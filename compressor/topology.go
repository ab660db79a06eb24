package compressor

import "fmt"

// Topology tells which channels detect from their own previous output. It
// selects how a chunk is scheduled: channels without feedback are processed
// block-wise, feedback channels one sample at a time.
type Topology int

const (
	TopologyNone   Topology = iota // no feedback
	TopologyFirst                  // channel 0 feeds back
	TopologySecond                 // channel 1 feeds back
	TopologyBoth                   // both channels feed back
)

func (t Topology) String() string {
	switch t {
	case TopologyNone:
		return "none"
	case TopologyFirst:
		return "first"
	case TopologySecond:
		return "second"
	case TopologyBoth:
		return "both"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

func topologyOf(chans []*channel) Topology {
	var t Topology
	for i, c := range chans {
		if c.route.Kind == RouteFeedback {
			t |= 1 << i
		}
	}
	return t
}

var dispatch = [...]func(p *Processor, n int){
	TopologyNone:   (*Processor).dispatchNone,
	TopologyFirst:  (*Processor).dispatchFirst,
	TopologySecond: (*Processor).dispatchSecond,
	TopologyBoth:   (*Processor).dispatchBoth,
}

func (p *Processor) dispatchNone(n int) {
	for _, c := range p.channels {
		c.processBlock(p.sources(c, n), n)
		c.feedback = c.out[n-1]
	}
}

func (p *Processor) dispatchFirst(n int) {
	p.dispatchSingle(0, n)
}

func (p *Processor) dispatchSecond(n int) {
	p.dispatchSingle(1, n)
}

// dispatchSingle processes the non-feedback channel as a block first so its
// provisional output is known for every sample the feedback channel sees.
func (p *Processor) dispatchSingle(fb, n int) {
	c := p.channels[fb]
	if len(p.channels) == 1 {
		for i := range n {
			c.processFeedbackSample(i, [2]float64{c.feedback, 0})
			c.feedback = c.out[i]
		}
		return
	}

	other := p.channels[1-fb]
	other.processBlock(p.sources(other, n), n)
	for i := range n {
		c.processFeedbackSample(i, p.feedbackPair())
		p.advanceFeedback(i)
	}
}

// dispatchBoth steps both channels together; each sees the pair of outputs
// from the preceding sample.
func (p *Processor) dispatchBoth(n int) {
	c0, c1 := p.channels[0], p.channels[1]
	for i := range n {
		fb := p.feedbackPair()
		c0.processFeedbackSample(i, fb)
		c1.processFeedbackSample(i, fb)
		p.advanceFeedback(i)
	}
}

func (p *Processor) feedbackPair() [2]float64 {
	return [2]float64{p.channels[0].feedback, p.channels[1].feedback}
}

func (p *Processor) advanceFeedback(i int) {
	for _, c := range p.channels {
		c.feedback = c.out[i]
	}
}

// sources returns the detector inputs of c for the current chunk. Missing
// external or link inputs read as silence.
func (p *Processor) sources(c *channel, n int) [2][]float64 {
	var src [2][]float64
	for k, ck := range p.channels {
		switch c.route.Kind {
		case RouteExternal:
			src[k] = p.external(k, n)
		case RouteLink:
			src[k] = p.link(k, n)
		default:
			src[k] = ck.in[:n]
		}
	}
	return src
}

func (p *Processor) external(k, n int) []float64 {
	buf := p.block.Sidechain[k]
	if len(buf) < p.offset+n {
		return p.silence[:n]
	}
	return buf[p.offset : p.offset+n]
}

func (p *Processor) link(k, n int) []float64 {
	l := p.block.Link[k]
	if l == nil || !l.Active || len(l.Data) < p.offset+n {
		return p.silence[:n]
	}
	return l.Data[p.offset : p.offset+n]
}
