// Package dynamics implements the gain computer and envelope follower of a
// compressor.
//
// A [Compressor] consumes a detector signal (the output of a level detector,
// not raw audio) and produces a per-sample gain together with the smoothed
// envelope it was derived from. Three modes are supported:
//
//   - [ModeDownward] reduces gain above the attack threshold.
//   - [ModeUpward] raises gain below the attack threshold, never treating
//     levels under the boost threshold as quieter than the boost threshold.
//   - [ModeBoosting] raises gain below the attack threshold up to a fixed
//     maximum boost.
//
// All levels are linear amplitudes. Gain computation runs in the log2 domain
// with a quadratic soft knee.
//
// The compressor is single-threaded and not safe for concurrent use.
package dynamics
