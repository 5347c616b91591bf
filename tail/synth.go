package tail

import (
	"math"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-latereverb/noise"
)

// warnf is the package warning channel (DEBUG=latereverb:tail). Recoverable
// misuse is reported here instead of through error returns; see SetDurations.
var warnf = debuggo.Debug("latereverb:tail")

// Synthesizer builds late-reverberation impulse responses from a per-band
// RT60 vector. Construction resolves defaults and runs the first synthesis
// pass, so a Synthesizer always holds a complete response.
//
// Methods are not safe for concurrent use; wrap the Synthesizer in a
// render.Renderer when updates arrive from a control thread.
type Synthesizer struct {
	cfg    config
	coeffs [NumBands]bandCoefficients
	buffer []float64
}

// New creates a Synthesizer, applying opts over the documented defaults
// (48 kHz, 1 octave bandwidth, 1.5 ms pre-delay, gain 0.01, 3.8 ms onset,
// all-zero durations), and performs the first synthesis pass.
func New(opts ...Option) *Synthesizer {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.src == nil {
		cfg.src = noise.NewRandom()
	}

	s := &Synthesizer{cfg: cfg}
	s.synthesize()

	return s
}

// SetDurations replaces the per-band RT60 vector and re-synthesizes the
// whole response, reporting whether the vector was applied. The vector must
// have exactly NumBands entries; any other length emits one warning and
// leaves the previous coefficients and buffer untouched. Entries clamp to
// [0, MaxDurationSeconds].
func (s *Synthesizer) SetDurations(durations []float64) bool {
	if len(durations) != NumBands {
		warnf("duration vector must have %d entries, got %d; keeping previous response",
			NumBands, len(durations))
		return false
	}

	for i, d := range durations {
		s.cfg.durations[i] = clampDuration(d)
	}

	s.synthesize()

	return true
}

// ImpulseResponse returns a copy of the current response buffer. The
// synthesizer never mutates a buffer after it has been returned.
func (s *Synthesizer) ImpulseResponse() []float64 {
	return append([]float64(nil), s.buffer...)
}

// Len returns the current response length in samples.
func (s *Synthesizer) Len() int { return len(s.buffer) }

// SampleRate returns the target sample rate in Hz.
func (s *Synthesizer) SampleRate() float64 { return s.cfg.sampleRate }

// Durations returns the resolved per-band RT60 vector in seconds.
func (s *Synthesizer) Durations() [NumBands]float64 { return s.cfg.durations }

// Bandwidth returns the shared band filter width in octaves.
func (s *Synthesizer) Bandwidth() float64 { return s.cfg.bandwidthOctaves }

// Gain returns the linear send level for the host's gain node. The response
// buffer itself is left unscaled.
func (s *Synthesizer) Gain() float64 { return s.cfg.gainLinear }

// PreDelay returns the pre-delay in seconds for the host's delay node.
func (s *Synthesizer) PreDelay() float64 { return s.cfg.preDelaySeconds }

// PreDelaySamples returns the pre-delay converted to samples at the target
// sample rate.
func (s *Synthesizer) PreDelaySamples() int {
	return int(math.Round(s.cfg.preDelaySeconds * s.cfg.sampleRate))
}

// TailOnset returns the onset taper duration in seconds.
func (s *Synthesizer) TailOnset() float64 { return s.cfg.tailOnsetSeconds }

// synthesize runs one full pass: fresh noise, per-band filter design, decay
// and accumulation, onset taper. The previous buffer is discarded wholesale.
func (s *Synthesizer) synthesize() {
	sr := s.cfg.sampleRate

	maxSamples := 0
	for i := range s.cfg.durations {
		n := int(math.Round(s.cfg.durations[i] * sr))
		if n > maxSamples {
			maxSamples = n
		}

		s.coeffs[i] = designBand(centerFrequencies[i], s.cfg.bandwidthOctaves, sr, n)
	}

	// A degenerate all-zero vector still yields a valid one-sample buffer.
	buffer := make([]float64, max(1, maxSamples))

	// One shared noise sequence per pass, read by every band. Reusing it
	// correlates band phases; that is part of the acoustic model.
	excitation := s.cfg.src.Uniform(maxSamples)
	scratch := make([]float64, maxSamples)

	for i := range s.coeffs {
		n := s.coeffs[i].durationSamples
		if n == 0 {
			continue
		}

		band := scratch[:n]
		s.coeffs[i].run(band, excitation[:n])
		vecmath.AddBlockInPlace(buffer[:n], band)
	}

	applyOnsetTaper(buffer, s.cfg.tailOnsetSeconds, sr)

	s.buffer = buffer
}

// run writes the band's decaying filtered noise into dst:
//
//	x[n] = excitation[n] * exp(decayRate*n)
//	u[n] = x[n] - a1*u[n-1] - a2*u[n-2]
//	dst[n] = b0 * (u[n] - u[n-2])
func (c bandCoefficients) run(dst, excitation []float64) {
	env := 1.0
	step := math.Exp(c.decayRate)

	var u1, u2 float64

	for i := range dst {
		x := excitation[i] * env
		env *= step

		u0 := x - c.a1*u1 - c.a2*u2
		dst[i] = c.b0 * (u0 - u2)

		u2 = u1
		u1 = u0
	}
}

// applyOnsetTaper multiplies the first min(len(buf), N) samples by a rising
// half-Hann window, N = round(onsetSeconds*sampleRate):
//
//	w[i] = 0.5 * (1 - cos(2*pi*i / (2N-1)))
//
// N <= 1 degenerates to a single-sample window and is skipped.
func applyOnsetTaper(buf []float64, onsetSeconds, sampleRate float64) {
	n := int(math.Round(onsetSeconds * sampleRate))
	if n <= 1 {
		return
	}

	m := min(len(buf), n)

	taper := make([]float64, m)
	for i := range taper {
		taper[i] = 0.5 * (1 - math.Cos(TwoPi*float64(i)/float64(2*n-1)))
	}

	vecmath.MulBlockInPlace(buf[:m], taper)
}
