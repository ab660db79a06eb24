package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-comp/compressor"
	"github.com/cwbudde/algo-comp/dsp/core"
)

// ErrUnsupportedWAV is returned for WAV files the runner cannot handle.
var ErrUnsupportedWAV = errors.New("unsupported wav file")

// ProcessCmd compresses a WAV file.
type ProcessCmd struct {
	settingsSource

	BlockSize   int  `default:"512" help:"Host block size in samples."`
	BitDepth    int  `enum:"0,16,24,32" default:"0" help:"Output bit depth (0 keeps the input depth)."`
	TrimLatency bool `help:"Remove the processing latency from the output."`

	Input  string `arg:"" type:"existingfile" help:"Input WAV file."`
	Output string `arg:"" type:"path" help:"Output WAV file."`
}

// Run implements the process command.
func (c *ProcessCmd) Run(g *Globals) error {
	in, err := readWAV(c.Input)
	if err != nil {
		return err
	}
	s, err := c.settings(len(in.channels))
	if err != nil {
		return err
	}

	out, stats, err := compress(in, s, c.BlockSize, c.TrimLatency, g.Logger)
	if err != nil {
		return err
	}
	if c.BitDepth != 0 {
		out.bitDepth = c.BitDepth
	}
	if err := writeWAV(c.Output, out); err != nil {
		return err
	}

	g.Logger.WithFields(logrus.Fields{
		"input":             c.Input,
		"output":            c.Output,
		"layout":            s.Layout.String(),
		"samples":           len(in.channels[0]),
		"latency":           stats.latency,
		"min_block_gain_db": fmt.Sprintf("%.2f", core.LinearToDB(stats.minGain)),
	}).Info("processed")
	return nil
}

// pcm is a deinterleaved audio file.
type pcm struct {
	sampleRate int
	bitDepth   int
	channels   [][]float64
}

type runStats struct {
	latency int
	minGain float64
}

// compress runs a processor configured with s over in.
func compress(in *pcm, s compressor.Settings, blockSize int, trim bool, logger logrus.FieldLogger) (*pcm, runStats, error) {
	n := len(in.channels)
	if n != s.Layout.Channels() {
		return nil, runStats{}, fmt.Errorf("%w: %d channels for layout %s", ErrUnsupportedWAV, n, s.Layout)
	}
	if blockSize <= 0 {
		return nil, runStats{}, fmt.Errorf("block size must be > 0: %d", blockSize)
	}

	p, err := compressor.New(s.Layout, float64(in.sampleRate), compressor.WithLogger(logger))
	if err != nil {
		return nil, runStats{}, err
	}
	up, err := p.Configure(s)
	if err != nil {
		return nil, runStats{}, err
	}

	length := len(in.channels[0])
	total := length
	if trim {
		total += up.Latency
	}

	src := make([][]float64, n)
	dst := make([][]float64, n)
	for ch := range n {
		src[ch] = make([]float64, total)
		copy(src[ch], in.channels[ch])
		dst[ch] = make([]float64, total)
	}

	stats := runStats{latency: up.Latency, minGain: 1}
	for off := 0; off < total; off += blockSize {
		end := min(off+blockSize, total)
		var b compressor.Block
		for ch := range n {
			b.In[ch] = src[ch][off:end]
			b.Out[ch] = dst[ch][off:end]
		}
		p.Process(&b)
		for ch := range n {
			stats.minGain = min(stats.minGain, p.Meters(ch).Gain)
		}
	}

	out := &pcm{sampleRate: in.sampleRate, bitDepth: in.bitDepth, channels: dst}
	if trim {
		for ch := range n {
			out.channels[ch] = dst[ch][up.Latency:]
		}
	}
	return out, stats, nil
}

func readWAV(path string) (*pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedWAV, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	n := int(dec.NumChans)
	depth := int(dec.BitDepth)
	if n < 1 || n > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedWAV, n)
	}
	if depth != 16 && depth != 24 && depth != 32 {
		return nil, fmt.Errorf("%w: %d bit", ErrUnsupportedWAV, depth)
	}

	scale := 1 / float64(int64(1)<<(depth-1))
	frames := len(buf.Data) / n
	p := &pcm{sampleRate: int(dec.SampleRate), bitDepth: depth, channels: make([][]float64, n)}
	for ch := range n {
		p.channels[ch] = make([]float64, frames)
		for i := range frames {
			p.channels[ch][i] = float64(buf.Data[i*n+ch]) * scale
		}
	}
	return p, nil
}

func writeWAV(path string, p *pcm) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	n := len(p.channels)
	full := float64(int64(1)<<(p.bitDepth-1)) - 1
	frames := len(p.channels[0])
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: n, SampleRate: p.sampleRate},
		Data:           make([]int, frames*n),
		SourceBitDepth: p.bitDepth,
	}
	for ch, samples := range p.channels {
		for i, v := range samples {
			buf.Data[i*n+ch] = int(core.Clamp(v, -1, 1) * full)
		}
	}

	enc := wav.NewEncoder(f, p.sampleRate, p.bitDepth, n, 1)
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
