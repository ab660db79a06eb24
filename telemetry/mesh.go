package telemetry

// Mesh is a snapshot of paired X/Y sequences.
type Mesh struct {
	X, Y []float64
}

// NewMesh returns an empty mesh able to hold up to capacity points.
func NewMesh(capacity int) *Mesh {
	return &Mesh{
		X: make([]float64, 0, capacity),
		Y: make([]float64, 0, capacity),
	}
}

// Len returns the number of points.
func (m *Mesh) Len() int { return len(m.X) }

// Cap returns the maximum number of points.
func (m *Mesh) Cap() int { return cap(m.X) }

// Resize sets the number of points, clamped to [0, Cap()]. Contents of
// retained points are kept.
func (m *Mesh) Resize(n int) {
	n = max(0, min(n, m.Cap()))
	m.X = m.X[:n]
	m.Y = m.Y[:n]
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	c := NewMesh(m.Len())
	c.X = append(c.X, m.X...)
	c.Y = append(c.Y, m.Y...)
	return c
}
