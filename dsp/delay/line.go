// Package delay provides fixed-capacity integer delay lines used for
// lookahead and latency compensation.
package delay

import "fmt"

// Line is a circular delay line with a fixed maximum delay and a settable
// current delay. Changing the delay never reallocates.
type Line struct {
	buffer   []float64
	writePos int
	delay    int
}

// New returns a delay line that can delay by up to capacity samples.
func New(capacity int) (*Line, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("delay capacity must be >= 0: %d", capacity)
	}
	return &Line{buffer: make([]float64, capacity+1)}, nil
}

// Capacity returns the largest supported delay in samples.
func (d *Line) Capacity() int {
	return len(d.buffer) - 1
}

// Delay returns the current delay in samples.
func (d *Line) Delay() int {
	return d.delay
}

// SetDelay sets the delay in samples. Values outside [0, Capacity] are
// clamped silently.
func (d *Line) SetDelay(samples int) {
	switch {
	case samples < 0:
		samples = 0
	case samples > d.Capacity():
		samples = d.Capacity()
	}
	d.delay = samples
}

// ProcessSample pushes x and returns the sample written Delay() calls ago.
func (d *Line) ProcessSample(x float64) float64 {
	size := len(d.buffer)
	d.buffer[d.writePos] = x

	readPos := d.writePos - d.delay
	if readPos < 0 {
		readPos += size
	}
	y := d.buffer[readPos]

	d.writePos++
	if d.writePos >= size {
		d.writePos = 0
	}
	return y
}

// Process delays src into dst. dst and src may be the same slice.
func (d *Line) Process(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = d.ProcessSample(x)
	}
}

// ProcessGain delays src and multiplies each delayed sample by the
// corresponding gain: dst[i] = delayed(src)[i] * gain[i].
func (d *Line) ProcessGain(dst, src, gain []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	_ = gain[len(src)-1]
	for i, x := range src {
		dst[i] = d.ProcessSample(x) * gain[i]
	}
}

// Reset clears line state. The configured delay is kept.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
