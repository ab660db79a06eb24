package main

import (
	"io"
	"os"

	"github.com/cwbudde/algo-comp/compressor"
	"github.com/cwbudde/algo-comp/preset"
)

// PresetCmd prints a default preset.
type PresetCmd struct {
	Layout string `short:"l" enum:"mono,stereo,linked,lr,ms" default:"lr" help:"Layout of the preset."`
}

// Run implements the preset command.
func (c *PresetCmd) Run(g *Globals) error {
	return c.write(os.Stdout)
}

func (c *PresetCmd) write(w io.Writer) error {
	layout, err := compressor.ParseLayout(c.Layout)
	if err != nil {
		return err
	}
	return preset.Default(layout).Write(w)
}
