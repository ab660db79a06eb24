// Command compwav runs the compressor over WAV files and inspects presets.
//
// Usage:
//
//	compwav process [flags] <in.wav> <out.wav>
//	compwav curve [flags]
//	compwav preset [flags]
//
// Examples:
//
//	compwav process --preset vocal.yaml take1.wav take1-comp.wav
//	compwav process --layout ms --trim-latency mix.wav mix-comp.wav
//	compwav curve --preset vocal.yaml --step 6
//	compwav preset --layout linked > linked.yaml
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-comp/compressor"
	"github.com/cwbudde/algo-comp/internal/log"
	"github.com/cwbudde/algo-comp/preset"
)

// CLI defines the command-line interface.
type CLI struct {
	Debug bool `help:"Enable debug logging."`

	Process ProcessCmd `cmd:"" help:"Compress a WAV file."`
	Curve   CurveCmd   `cmd:"" help:"Print the static transfer curve of a preset."`
	Preset  PresetCmd  `cmd:"" help:"Print a default preset as YAML."`
}

// Globals is passed to every command's Run method.
type Globals struct {
	Logger *logrus.Logger
}

// settingsSource selects the settings a command works with.
type settingsSource struct {
	Preset string `short:"p" type:"path" help:"YAML preset file."`
	Layout string `short:"l" help:"Override the preset layout (mono, stereo, linked, lr, ms)."`
}

// settings loads the preset, applies the layout override and falls back
// to the layout that fits channels when neither is given.
func (s settingsSource) settings(channels int) (compressor.Settings, error) {
	p := preset.Default(defaultLayout(channels))
	if s.Preset != "" {
		var err error
		if p, err = preset.LoadFile(s.Preset); err != nil {
			return compressor.Settings{}, err
		}
	}
	if s.Layout != "" {
		p.Layout = s.Layout
	}
	return p.Settings()
}

func defaultLayout(channels int) compressor.Layout {
	if channels == 1 {
		return compressor.LayoutMono
	}
	return compressor.LayoutLeftRight
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("compwav"),
		kong.Description("Offline runner for the algo-comp compressor"),
		kong.UsageOnError(),
	)

	logger := log.GetLogger()
	if cli.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	err := ctx.Run(&Globals{Logger: logger})
	if err != nil {
		logger.WithError(err).Error("compwav failed")
		os.Exit(1)
	}
}
