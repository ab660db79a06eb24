//nolint:funcorder
package dynamics

import (
	"fmt"
	"math"
)

// Mode selects the direction of gain change.
type Mode int

const (
	// ModeDownward attenuates levels above the threshold.
	ModeDownward Mode = iota
	// ModeUpward amplifies levels below the threshold down to the boost threshold.
	ModeUpward
	// ModeBoosting amplifies levels below the threshold by at most the boost amount.
	ModeBoosting
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDownward:
		return "downward"
	case ModeUpward:
		return "upward"
	case ModeBoosting:
		return "boosting"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

const (
	// Parameter validation ranges
	MinRatio     = 1.0
	MaxRatio     = 100.0
	MinKnee      = 0.063095734448019 // -24 dB
	MaxKnee      = 1.0
	MaxAttackMs  = 2000.0
	MaxReleaseMs = 5000.0
	MaxHoldMs    = 5000.0

	defaultAttackThreshold = 0.251188643150958 // -12 dB
	defaultBoostThreshold  = 0.000251188643151 // -72 dB
	defaultRatio           = 4.0
	defaultKnee            = 0.501187233627272 // -6 dB
	defaultAttackMs        = 20.0
	defaultReleaseMs       = 100.0
)

// Compressor turns a detector signal into a gain signal.
type Compressor struct {
	sampleRate float64
	mode       Mode

	// User-configurable parameters
	attackThreshold  float64
	releaseThreshold float64
	boostThreshold   float64
	ratio            float64
	knee             float64
	attackMs         float64
	releaseMs        float64
	holdMs           float64

	modified bool

	// Computed coefficients
	tauAttack        float64
	tauRelease       float64
	holdSamples      int
	thresholdLog2    float64
	kneeHalfLog2     float64
	invKneeWidthLog2 float64
	slope            float64

	// Envelope follower state
	envelope    float64
	holdCounter int
}

// NewCompressor creates a downward compressor with -12 dB threshold, 4:1
// ratio, -6 dB knee, 20 ms attack and 100 ms release.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	c := &Compressor{
		sampleRate:      sampleRate,
		mode:            ModeDownward,
		attackThreshold: defaultAttackThreshold,
		boostThreshold:  defaultBoostThreshold,
		ratio:           defaultRatio,
		knee:            defaultKnee,
		attackMs:        defaultAttackMs,
		releaseMs:       defaultReleaseMs,
		modified:        true,
	}
	c.updateCoefficients()
	return c, nil
}

// SetSampleRate updates the sample rate and recalculates time constants.
func (c *Compressor) SetSampleRate(sampleRate float64) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}
	c.set(&c.sampleRate, sampleRate)
	return nil
}

// SetMode selects downward, upward or boosting operation.
func (c *Compressor) SetMode(mode Mode) error {
	if mode < ModeDownward || mode > ModeBoosting {
		return fmt.Errorf("compressor mode is invalid: %d", mode)
	}
	if c.mode != mode {
		c.mode = mode
		c.modified = true
	}
	return nil
}

// SetThresholds sets the attack threshold and the release threshold as
// linear levels. Falling envelopes use the release time only while they are
// above the release threshold; a release threshold of zero always releases
// with the release time.
func (c *Compressor) SetThresholds(attack, release float64) error {
	if attack <= 0 || !isFinite(attack) {
		return fmt.Errorf("compressor attack threshold must be positive and finite: %f", attack)
	}
	if release < 0 || !isFinite(release) {
		return fmt.Errorf("compressor release threshold must be non-negative and finite: %f", release)
	}
	c.set(&c.attackThreshold, attack)
	c.set(&c.releaseThreshold, release)
	return nil
}

// SetBoostThreshold sets the boost level. In upward mode it is the level
// below which no further boost happens; in boosting mode it is the maximum
// gain.
func (c *Compressor) SetBoostThreshold(level float64) error {
	if level <= 0 || !isFinite(level) {
		return fmt.Errorf("compressor boost threshold must be positive and finite: %f", level)
	}
	c.set(&c.boostThreshold, level)
	return nil
}

// SetRatio sets the compression ratio in [MinRatio, MaxRatio].
func (c *Compressor) SetRatio(ratio float64) error {
	if ratio < MinRatio || ratio > MaxRatio || !isFinite(ratio) {
		return fmt.Errorf("compressor ratio must be in [%f, %f]: %f", MinRatio, MaxRatio, ratio)
	}
	c.set(&c.ratio, ratio)
	return nil
}

// SetKnee sets the knee as a linear amplitude factor in [MinKnee, MaxKnee].
// The soft knee spans threshold*knee to threshold/knee; 1 is a hard knee.
func (c *Compressor) SetKnee(knee float64) error {
	if knee < MinKnee || knee > MaxKnee || !isFinite(knee) {
		return fmt.Errorf("compressor knee must be in [%f, %f]: %f", MinKnee, MaxKnee, knee)
	}
	c.set(&c.knee, knee)
	return nil
}

// SetTimings sets attack and release times in milliseconds.
func (c *Compressor) SetTimings(attackMs, releaseMs float64) error {
	if attackMs < 0 || attackMs > MaxAttackMs || !isFinite(attackMs) {
		return fmt.Errorf("compressor attack must be in [0, %f]: %f", MaxAttackMs, attackMs)
	}
	if releaseMs < 0 || releaseMs > MaxReleaseMs || !isFinite(releaseMs) {
		return fmt.Errorf("compressor release must be in [0, %f]: %f", MaxReleaseMs, releaseMs)
	}
	c.set(&c.attackMs, attackMs)
	c.set(&c.releaseMs, releaseMs)
	return nil
}

// SetHold sets the time in milliseconds the envelope is held after a peak
// before release starts.
func (c *Compressor) SetHold(ms float64) error {
	if ms < 0 || ms > MaxHoldMs || !isFinite(ms) {
		return fmt.Errorf("compressor hold must be in [0, %f]: %f", MaxHoldMs, ms)
	}
	c.set(&c.holdMs, ms)
	return nil
}

// Mode returns the current mode.
func (c *Compressor) Mode() Mode { return c.mode }

// Ratio returns the current compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Knee returns the current knee factor.
func (c *Compressor) Knee() float64 { return c.knee }

// AttackThreshold returns the attack threshold.
func (c *Compressor) AttackThreshold() float64 { return c.attackThreshold }

// ReleaseThreshold returns the release threshold.
func (c *Compressor) ReleaseThreshold() float64 { return c.releaseThreshold }

// SampleRate returns the current sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// Envelope returns the current envelope value.
func (c *Compressor) Envelope() float64 { return c.envelope }

// TakeModified reports whether any parameter affecting the transfer curve or
// timing changed since the last call, and clears the flag.
func (c *Compressor) TakeModified() bool {
	m := c.modified
	c.modified = false
	return m
}

// ProcessSample advances the envelope by one detector sample and returns the
// resulting gain and envelope.
func (c *Compressor) ProcessSample(sc float64) (gain, env float64) {
	env = c.follow(sc)
	return c.gainAt(env), env
}

// Process computes gain and envelope for each detector sample in sc. gain
// and env must be at least as long as sc. The result is bit-identical to
// calling ProcessSample for each sample in turn.
func (c *Compressor) Process(gain, env, sc []float64) {
	if len(sc) == 0 {
		return
	}
	_ = gain[len(sc)-1]
	_ = env[len(sc)-1]
	for i, s := range sc {
		gain[i], env[i] = c.ProcessSample(s)
	}
}

// Gain returns the static gain for a steady detector level.
func (c *Compressor) Gain(level float64) float64 {
	return c.gainAt(math.Abs(level))
}

// CurveSample returns the static output level for a steady input level.
func (c *Compressor) CurveSample(level float64) float64 {
	level = math.Abs(level)
	return level * c.gainAt(level)
}

// Curve fills dst with the static output level for each input level in src.
func (c *Compressor) Curve(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = c.CurveSample(x)
	}
}

// Reset clears the envelope follower.
func (c *Compressor) Reset() {
	c.envelope = 0
	c.holdCounter = 0
}

func (c *Compressor) set(dst *float64, v float64) {
	if *dst == v {
		return
	}
	*dst = v
	c.modified = true
	c.updateCoefficients()
}

// updateCoefficients recalculates all internal cached values.
func (c *Compressor) updateCoefficients() {
	c.tauAttack = timeConstant(c.attackMs, c.sampleRate)
	c.tauRelease = timeConstant(c.releaseMs, c.sampleRate)
	c.holdSamples = int(math.Round(c.holdMs * 0.001 * c.sampleRate))

	c.thresholdLog2 = math.Log2(c.attackThreshold)
	c.kneeHalfLog2 = -math.Log2(c.knee)
	if c.kneeHalfLog2 > 0 {
		c.invKneeWidthLog2 = 1 / (2 * c.kneeHalfLog2)
	} else {
		c.invKneeWidthLog2 = 0
	}
	c.slope = 1 - 1/c.ratio
}

// timeConstant returns the one-pole smoothing factor reaching half of a step
// after ms milliseconds. Zero time means no smoothing.
func timeConstant(ms, sampleRate float64) float64 {
	samples := ms * 0.001 * sampleRate
	if samples < 1 {
		return 1
	}
	return 1 - math.Exp(-math.Ln2/samples)
}

func (c *Compressor) follow(s float64) float64 {
	d := s - c.envelope
	switch {
	case d >= 0:
		c.holdCounter = c.holdSamples
		c.envelope += float64(c.tauAttack * d)
	case c.envelope > c.releaseThreshold:
		if c.holdCounter > 0 {
			c.holdCounter--
			break
		}
		c.envelope += float64(c.tauRelease * d)
	default:
		c.envelope += float64(c.tauAttack * d)
	}
	return c.envelope
}

// shapeKnee applies the soft knee to a log2-domain distance past the
// threshold. The result is 0 below the knee and x above it.
func (c *Compressor) shapeKnee(x float64) float64 {
	half := c.kneeHalfLog2
	switch {
	case x <= -half:
		return 0
	case x >= half:
		return x
	default:
		s := x + half
		return s * s * 0.5 * c.invKneeWidthLog2
	}
}

func (c *Compressor) gainAt(level float64) float64 {
	switch c.mode {
	case ModeUpward:
		if level < c.boostThreshold {
			level = c.boostThreshold
		}
		eff := c.shapeKnee(c.thresholdLog2 - math.Log2(level))
		if eff == 0 {
			return 1
		}
		return math.Exp2(eff * c.slope)
	case ModeBoosting:
		if level <= 0 {
			return math.Max(c.boostThreshold, 1)
		}
		eff := c.shapeKnee(c.thresholdLog2 - math.Log2(level))
		if eff == 0 {
			return 1
		}
		return math.Min(math.Exp2(eff*c.slope), math.Max(c.boostThreshold, 1))
	default:
		if level <= 0 {
			return 1
		}
		eff := c.shapeKnee(math.Log2(level) - c.thresholdLog2)
		if eff == 0 {
			return 1
		}
		return math.Exp2(-eff * c.slope)
	}
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return fmt.Errorf("compressor sample rate must be positive and finite: %f", sampleRate)
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
