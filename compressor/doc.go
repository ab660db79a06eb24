// Package compressor is a one- or two-channel dynamics processor built from
// the dsp building blocks of this module.
//
// For each block a [Processor] derives a detector signal per channel from a
// configurable route (the channel's own input, its previous output, an
// external sidechain or a link buffer shared with another processor),
// computes a gain curve from it, applies the gain to a lookahead-delayed copy
// of the signal, mixes wet and dry paths and crossfades against a
// latency-matched copy of the raw input for bypass.
//
// Routes that feed back the previous output force sample-by-sample
// processing for the affected channels; all other routes run block-wise.
// Both paths share the same kernels, so output does not depend on how the
// host splits the stream into blocks.
//
// Level histories, meters, a static transfer curve and "dot" values are
// published for visualization through [telemetry.Mailbox]es.
//
// Configure and Process must be called from the same goroutine. Process
// neither allocates nor logs.
package compressor
