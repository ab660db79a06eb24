// Package core holds the level, duration and option helpers shared by the
// dsp packages and the compressor.
package core

// DefaultChunkSize is the largest number of samples processed in one pass
// over the internal work buffers.
const DefaultChunkSize = 0x1000

// ProcessorConfig holds the settings shared by every block processor.
type ProcessorConfig struct {
	SampleRate float64
	ChunkSize  int
}

// ProcessorOption mutates a ProcessorConfig. Options ignore values they
// cannot use and keep the previous setting.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz with DefaultChunkSize.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 48000, ChunkSize: DefaultChunkSize}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithChunkSize sets the size of the internal work buffers.
func WithChunkSize(samples int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if samples > 0 {
			cfg.ChunkSize = samples
		}
	}
}

// ApplyProcessorOptions applies opts in order to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
