// Package bypass provides a click-free switch between a processed and an
// unprocessed signal.
package bypass

import "fmt"

// DefaultFadeSeconds is the crossfade duration used by New.
const DefaultFadeSeconds = 0.005

// Bypass crossfades linearly between a dry and a wet signal. While active
// the wet signal passes unchanged; while bypassed the dry signal does.
type Bypass struct {
	sampleRate float64
	fade       float64
	gain       float64
	target     float64
	delta      float64
}

// New returns an active (not bypassed) switch with a 5 ms crossfade.
func New(sampleRate float64) (*Bypass, error) {
	b := &Bypass{fade: DefaultFadeSeconds, gain: 1, target: 1}
	if err := b.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}
	return b, nil
}

// SetSampleRate recomputes the crossfade step.
func (b *Bypass) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("bypass sample rate must be positive: %f", sampleRate)
	}
	b.sampleRate = sampleRate
	b.delta = 1 / (b.fade * sampleRate)
	return nil
}

// Set switches bypass on or off and reports whether the state changed.
func (b *Bypass) Set(bypass bool) bool {
	target := 1.0
	if bypass {
		target = 0
	}
	if target == b.target {
		return false
	}
	b.target = target
	return true
}

// Bypassed reports whether the switch is, or is fading towards, bypass.
func (b *Bypass) Bypassed() bool {
	return b.target == 0
}

// Settled reports whether no crossfade is in progress.
func (b *Bypass) Settled() bool {
	return b.gain == b.target
}

// Process writes the crossfaded signal to dst. dst may alias wet or dry.
func (b *Bypass) Process(dst, dry, wet []float64) {
	if b.Settled() {
		if b.Bypassed() {
			copy(dst, dry)
		} else {
			copy(dst, wet)
		}
		return
	}
	if len(dst) == 0 {
		return
	}

	_ = dry[len(dst)-1]
	_ = wet[len(dst)-1]
	for i := range dst {
		if b.gain < b.target {
			b.gain = min(b.gain+b.delta, b.target)
		} else if b.gain > b.target {
			b.gain = max(b.gain-b.delta, b.target)
		}
		dst[i] = float64(dry[i]*(1-b.gain)) + float64(wet[i]*b.gain)
	}
}

// Snap ends any crossfade in progress at the target state.
func (b *Bypass) Snap() {
	b.gain = b.target
}
