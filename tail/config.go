package tail

import (
	"math"

	"github.com/cwbudde/algo-latereverb/noise"
)

const (
	defaultSampleRate       = 48000.0
	defaultBandwidthOctaves = 1.0
	defaultPreDelaySeconds  = 0.0015
	defaultGainLinear       = 0.01
	defaultTailOnsetSeconds = 0.0038
)

type config struct {
	sampleRate       float64
	durations        [NumBands]float64
	bandwidthOctaves float64
	preDelaySeconds  float64
	gainLinear       float64
	tailOnsetSeconds float64
	src              *noise.Generator
}

func defaultConfig() config {
	return config{
		sampleRate:       defaultSampleRate,
		bandwidthOctaves: defaultBandwidthOctaves,
		preDelaySeconds:  defaultPreDelaySeconds,
		gainLinear:       defaultGainLinear,
		tailOnsetSeconds: defaultTailOnsetSeconds,
	}
}

// Option configures a Synthesizer at construction time. Out-of-range values
// clamp to the valid range rather than failing; the synthesizer never
// aborts inside an audio pipeline.
type Option func(*config)

// WithSampleRate sets the target sample rate in Hz. Non-positive rates are
// ignored and the default of 48000 Hz is kept.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) {
		if sampleRate > 0 {
			cfg.sampleRate = sampleRate
		}
	}
}

// WithDurations sets the initial per-band RT60 vector in seconds. The vector
// must have exactly NumBands entries; other lengths emit a warning and keep
// the all-zero default. Entries clamp to [0, MaxDurationSeconds].
func WithDurations(durations []float64) Option {
	return func(cfg *config) {
		if len(durations) != NumBands {
			warnf("duration vector must have %d entries, got %d; keeping defaults",
				NumBands, len(durations))
			return
		}

		for i, d := range durations {
			cfg.durations[i] = clampDuration(d)
		}
	}
}

// WithBandwidth sets the shared band filter width in octaves. Negative
// widths clamp to zero.
func WithBandwidth(octaves float64) Option {
	return func(cfg *config) {
		cfg.bandwidthOctaves = clampNonNegative(octaves)
	}
}

// WithPreDelay sets the pre-delay in seconds, the silence the host inserts
// before the tail. Negative values clamp to zero.
func WithPreDelay(seconds float64) Option {
	return func(cfg *config) {
		cfg.preDelaySeconds = clampNonNegative(seconds)
	}
}

// WithGain sets the linear send level the host applies to the tail.
// Negative values clamp to zero.
func WithGain(linear float64) Option {
	return func(cfg *config) {
		cfg.gainLinear = clampNonNegative(linear)
	}
}

// WithTailOnset sets the onset taper duration in seconds. Negative values
// clamp to zero.
func WithTailOnset(seconds float64) Option {
	return func(cfg *config) {
		cfg.tailOnsetSeconds = clampNonNegative(seconds)
	}
}

// WithNoiseSource sets the excitation source. The default draws from a
// wall-clock seeded generator; pass noise.New with a fixed seed for
// reproducible synthesis.
func WithNoiseSource(src *noise.Generator) Option {
	return func(cfg *config) {
		if src != nil {
			cfg.src = src
		}
	}
}

func clampDuration(seconds float64) float64 {
	if seconds < 0 || math.IsNaN(seconds) {
		return 0
	}

	if seconds > MaxDurationSeconds {
		return MaxDurationSeconds
	}

	return seconds
}

func clampNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}

	return v
}
