// Package sidechain derives the detector signal that drives a compressor.
//
// A [Sidechain] combines one or two input channels into a mono signal
// according to a [Source], applies a preamp gain and an optional
// [PreFilter], then follows its level with one of four [Mode]s. The result is
// a non-negative level per sample.
//
// Block processing and per-sample processing share the same kernel, so
// Process over a block equals ProcessSample applied sample by sample.
package sidechain
