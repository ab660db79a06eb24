package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-comp/compressor"
	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/internal/log"
)

// CurveCmd prints the static transfer curve of a channel.
type CurveCmd struct {
	settingsSource

	Channel int     `short:"c" default:"0" help:"Channel to print."`
	Step    float64 `default:"12" help:"Input level step in dB."`
}

// Run implements the curve command.
func (c *CurveCmd) Run(g *Globals) error {
	return c.print(os.Stdout)
}

func (c *CurveCmd) print(w io.Writer) error {
	s, err := c.settings(2)
	if err != nil {
		return err
	}
	if c.Channel < 0 || c.Channel >= s.Layout.Channels() {
		return fmt.Errorf("channel %d out of range for layout %s", c.Channel, s.Layout)
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be > 0: %f", c.Step)
	}

	p, err := compressor.New(s.Layout, 48000, compressor.WithLogger(log.Discard()))
	if err != nil {
		return err
	}
	if _, err := p.Configure(s); err != nil {
		return err
	}
	p.Process(nil)

	box := p.Curve(c.Channel)
	held, ok := box.TryReceive()
	if !ok {
		return fmt.Errorf("no transfer curve published for channel %d", c.Channel)
	}
	mesh := held.Clone()
	box.Release(held)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "in dB\tout dB\tgain dB\t")
	next := float64(compressor.CurveMinDB)
	for i := range mesh.Len() {
		in := core.LinearToDB(mesh.X[i])
		if in+1e-9 < next {
			continue
		}
		out := core.LinearToDB(mesh.Y[i])
		fmt.Fprintf(tw, "%.1f\t%.2f\t%.2f\t\n", in, out, out-in)
		next += c.Step
	}
	return tw.Flush()
}
