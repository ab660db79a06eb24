package compressor

import "errors"

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	// ErrInvalidLayout is returned for unknown layouts.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrLayoutChannels is returned when a layout needs a different channel
	// count than the processor was built for.
	ErrLayoutChannels = errors.New("layout channel count mismatch")
	// ErrInvalidSettings is returned for settings with non-finite values or
	// unknown enumerations.
	ErrInvalidSettings = errors.New("invalid settings")
)
