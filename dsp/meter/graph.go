// Package meter provides downsampled level histories for visualization.
package meter

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Method selects how the samples of one history point are reduced.
type Method int

const (
	MethodAbsMax Method = iota
	MethodAbsMin
	MethodMax
	MethodMin
)

// Graph is a fixed-size rolling history. Every Period samples fed through
// Process are reduced to one point; the oldest point is dropped when a new
// one arrives.
type Graph struct {
	data   []float64
	head   int
	method Method
	period int

	count int
	acc   float64
}

// NewGraph returns a history of the given number of points, one point per
// input sample until SetPeriod is called.
func NewGraph(points int) (*Graph, error) {
	if points <= 0 {
		return nil, fmt.Errorf("meter graph size must be > 0: %d", points)
	}
	return &Graph{data: make([]float64, points), period: 1}, nil
}

// Len returns the number of history points.
func (g *Graph) Len() int { return len(g.data) }

// Period returns the number of samples reduced into one point.
func (g *Graph) Period() int { return g.period }

// Method returns the reduction method.
func (g *Graph) Method() Method { return g.method }

// SetPeriod sets the samples per point (at least 1) and discards a partial
// point.
func (g *Graph) SetPeriod(samples int) {
	if samples < 1 {
		samples = 1
	}
	g.period = samples
	g.count = 0
	g.acc = 0
}

// SetMethod selects the reduction method. Unknown methods fall back to
// MethodAbsMax.
func (g *Graph) SetMethod(m Method) {
	if m < MethodAbsMax || m > MethodMin {
		m = MethodAbsMax
	}
	g.method = m
}

// Process feeds samples into the history.
func (g *Graph) Process(buf []float64) {
	for len(buf) > 0 {
		n := min(g.period-g.count, len(buf))
		v := g.reduce(buf[:n])
		if g.count == 0 {
			g.acc = v
		} else {
			g.acc = g.combine(g.acc, v)
		}
		g.count += n
		buf = buf[n:]

		if g.count >= g.period {
			g.push(g.acc)
			g.count = 0
		}
	}
}

// Fill sets every point to v and discards a partial point.
func (g *Graph) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
	g.count = 0
	g.acc = 0
}

// Clear sets every point to zero.
func (g *Graph) Clear() {
	g.Fill(0)
}

// Data copies the history into dst ordered oldest to newest and returns the
// number of points copied.
func (g *Graph) Data(dst []float64) int {
	n := copy(dst, g.data[g.head:])
	n += copy(dst[n:], g.data[:g.head])
	return n
}

func (g *Graph) push(v float64) {
	g.data[g.head] = v
	g.head++
	if g.head >= len(g.data) {
		g.head = 0
	}
}

func (g *Graph) reduce(buf []float64) float64 {
	if g.method == MethodAbsMax {
		return vecmath.MaxAbs(buf)
	}

	v := g.project(buf[0])
	for _, x := range buf[1:] {
		v = g.combine(v, g.project(x))
	}
	return v
}

func (g *Graph) project(x float64) float64 {
	if g.method == MethodAbsMin {
		return math.Abs(x)
	}
	return x
}

func (g *Graph) combine(a, b float64) float64 {
	switch g.method {
	case MethodAbsMin, MethodMin:
		return math.Min(a, b)
	default:
		return math.Max(a, b)
	}
}
