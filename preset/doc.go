// Package preset reads and writes compressor settings as YAML.
//
// Presets use decibels and milliseconds where the engine uses linear
// amplitudes, and names where it uses enumerations:
//
//	name: vocal
//	layout: lr
//	output_db: 1.5
//	channels:
//	  - threshold_db: -18
//	    ratio: 3
//	    sidechain:
//	      mode: rms
//	      lookahead_ms: 2
//	      hpf: {slope: 12, hz: 120}
//
// Fields left out keep their defaults. A single channel entry is used for
// both channels of a stereo layout.
package preset
