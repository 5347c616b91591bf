package tail

import "math"

// bandCoefficients holds the second-order bandpass recurrence terms and the
// decay envelope for one band. The design has b1 = 0 and b2 = -b0, so only
// b0 is stored and the zero-side history collapses to u[n] - u[n-2].
//
// A zero value means the band is inactive and contributes nothing.
type bandCoefficients struct {
	b0, a1, a2      float64
	decayRate       float64
	durationSamples int
}

// designBand derives constant-Q bandpass coefficients for a band centered at
// centerHz with the given width in octaves:
//
//	omega = 2*pi*centerHz / sampleRate
//	alpha = sin(omega) * sinh((B*ln2/2) * omega / sin(omega))
//	b0    =  alpha / (1+alpha)
//	a1    = -2*cos(omega) / (1+alpha)
//	a2    = (1-alpha) / (1+alpha)
//
// decayRate is -ln(1000)/durationSamples, so the envelope reaches -60 dB
// exactly at durationSamples. Bands with no duration, or whose center lies
// at or above Nyquist, come back inactive.
func designBand(centerHz, bandwidthOctaves, sampleRate float64, durationSamples int) bandCoefficients {
	if durationSamples <= 0 {
		return bandCoefficients{}
	}

	if sampleRate <= 0 || centerHz <= 0 || centerHz >= sampleRate/2 {
		return bandCoefficients{}
	}

	omega := TwoPi * centerHz / sampleRate
	sinOmega := math.Sin(omega)
	alpha := sinOmega * math.Sinh(HalfLn2*bandwidthOctaves*omega/sinOmega)
	a0Inv := 1 / (1 + alpha)

	return bandCoefficients{
		b0:              alpha * a0Inv,
		a1:              -2 * math.Cos(omega) * a0Inv,
		a2:              (1 - alpha) * a0Inv,
		decayRate:       -Log1000 / float64(durationSamples),
		durationSamples: durationSamples,
	}
}
