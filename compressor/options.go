package compressor

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-comp/dsp/core"
	applog "github.com/cwbudde/algo-comp/internal/log"
)

// Option configures a Processor at construction.
type Option func(*config)

type config struct {
	core.ProcessorConfig
	logger logrus.FieldLogger
}

// WithChunkSize bounds the number of samples processed per internal pass.
// Output does not depend on the chunk size; smaller chunks only cost time.
func WithChunkSize(samples int) Option {
	return func(c *config) {
		core.WithChunkSize(samples)(&c.ProcessorConfig)
	}
}

// WithLogger sets the logger used for construction and configuration
// events. Process never logs.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func applyOptions(sampleRate float64, opts []Option) config {
	c := config{
		ProcessorConfig: core.ApplyProcessorOptions(core.WithSampleRate(sampleRate)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.logger == nil {
		c.logger = applog.GetLogger()
	}
	return c
}
