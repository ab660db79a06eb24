// Package biquad provides second-order IIR filter sections and cascades.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Sections are cascaded via
// [Chain]. Block and per-sample processing run the same scalar recurrence,
// so a block processed at once is bit-identical to the same samples fed one
// at a time.
//
// Coefficient design lives in dsp/filter/design.
package biquad
