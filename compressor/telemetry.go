package compressor

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/meter"
	"github.com/cwbudde/algo-comp/telemetry"
)

// Trace identifies one of a channel's history traces.
type Trace int

const (
	TraceInput Trace = iota
	TraceSidechain
	TraceEnvelope
	TraceGain
	TraceOutput

	numTraces
)

var traceNames = [...]string{
	TraceInput:     "input",
	TraceSidechain: "sidechain",
	TraceEnvelope:  "envelope",
	TraceGain:      "gain",
	TraceOutput:    "output",
}

func (t Trace) String() string {
	if t < 0 || t >= numTraces {
		return "unknown"
	}
	return traceNames[t]
}

const (
	// HistoryPoints is the number of points of every history trace.
	HistoryPoints = 400
	// HistorySeconds is the time span covered by a history trace.
	HistorySeconds = 5.0
	// CurvePoints is the number of points of a transfer curve snapshot.
	CurvePoints = 256
	// CurveMinDB and CurveMaxDB bound the transfer curve input levels.
	CurveMinDB = -72.0
	CurveMaxDB = 24.0

	// The input trace is closed with one zero point on each side and the
	// gain trace with two unity points on each side, so that filled
	// plots start and end at the baseline.
	inputPadding = 2
	gainPadding  = 4
	traceCap     = HistoryPoints + gainPadding
)

// Meters holds the block-wise peak values of one channel, refreshed by
// every Process call.
type Meters struct {
	Input     float64
	Sidechain float64
	Envelope  float64
	Gain      float64
	Curve     float64
	Output    float64
}

// Dot is the current operating point on the transfer curve.
type Dot struct {
	In, Out float64
}

var (
	timeAxis  [HistoryPoints]float64
	curveAxis [CurvePoints]float64
)

func init() {
	delta := HistorySeconds / (HistoryPoints - 1)
	for i := range timeAxis {
		timeAxis[i] = HistorySeconds - float64(i)*delta
	}
	delta = (CurveMaxDB - CurveMinDB) / (CurvePoints - 1)
	for i := range curveAxis {
		curveAxis[i] = core.DBToLinear(CurveMinDB + float64(i)*delta)
	}
}

// historyPeriod returns the number of samples reduced into one trace point.
func historyPeriod(sampleRate float64) int {
	return max(1, core.SecondsToSamples(sampleRate, HistorySeconds/HistoryPoints))
}

func newGraphs(sampleRate float64) ([numTraces]*meter.Graph, error) {
	var graphs [numTraces]*meter.Graph
	for i := range graphs {
		g, err := meter.NewGraph(HistoryPoints)
		if err != nil {
			return graphs, err
		}
		g.SetPeriod(historyPeriod(sampleRate))
		graphs[i] = g
	}
	graphs[TraceGain].Fill(1)
	return graphs, nil
}

func newTraceMailboxes() [numTraces]*telemetry.Mailbox {
	var boxes [numTraces]*telemetry.Mailbox
	for i := range boxes {
		boxes[i] = telemetry.NewMailbox(traceCap)
	}
	return boxes
}

// fillTrace copies the history of g into m with the time axis and the
// padding points of trace t.
func fillTrace(m *telemetry.Mesh, t Trace, g *meter.Graph) {
	switch t {
	case TraceInput:
		m.Resize(HistoryPoints + inputPadding)
		copy(m.X[1:], timeAxis[:])
		g.Data(m.Y[1:])
		n := HistoryPoints + 1
		m.X[0], m.Y[0] = m.X[1], 0
		m.X[n], m.Y[n] = m.X[n-1], 0
	case TraceGain:
		m.Resize(HistoryPoints + gainPadding)
		copy(m.X[2:], timeAxis[:])
		g.Data(m.Y[2:])
		m.X[0], m.Y[0] = m.X[2]+0.5, 1
		m.X[1], m.Y[1] = m.X[0], m.Y[2]
		n := HistoryPoints + 2
		m.X[n], m.Y[n] = m.X[n-1]-0.5, m.Y[n-1]
		m.X[n+1], m.Y[n+1] = m.X[n], 1
	default:
		m.Resize(HistoryPoints)
		copy(m.X, timeAxis[:])
		g.Data(m.Y)
	}
}

// fillCurve writes the static transfer curve of c into m.
func (c *channel) fillCurve(m *telemetry.Mesh) {
	m.Resize(CurvePoints)
	copy(m.X, curveAxis[:])
	c.comp.Curve(m.Y, m.X)
	if c.makeup != 1 {
		vecmath.ScaleBlockInPlace(m.Y, c.makeup)
	}
}

// publish pushes snapshots to every mailbox the consumer has released.
// clearing zeroes the histories first. A dirty transfer curve waits until
// its mesh is free. Paused histories are not fed but their frozen contents are still
// delivered.
func (c *channel) publish(clearing bool) {
	if clearing {
		for _, g := range c.graphs {
			g.Clear()
		}
	}

	for t, box := range c.traces {
		m, ok := box.Acquire()
		if !ok {
			continue
		}
		fillTrace(m, Trace(t), c.graphs[t])
		box.Publish(m)
	}

	if c.curveDirty {
		if m, ok := c.curve.Acquire(); ok {
			c.fillCurve(m)
			c.curve.Publish(m)
			c.curveDirty = false
		}
	}

	c.dot.In = c.meters.Envelope
	c.dot.Out = c.comp.CurveSample(c.dot.In) * c.makeup
	c.meters.Curve = c.dot.Out
}
