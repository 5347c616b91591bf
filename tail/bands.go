package tail

import "math"

// NumBands is the number of frequency bands in the reverberation model.
const NumBands = 9

// Derived constants of the synthesis model.
const (
	// MaxDurationSeconds bounds the per-band RT60; longer requests clamp.
	MaxDurationSeconds = 3.0

	// Log1000 is ln(1000), the -60 dB amplitude factor of an RT60 decay.
	Log1000 = 6.907755278982137

	// HalfLn2 is ln(2)/2, used by the constant-Q bandwidth mapping.
	HalfLn2 = math.Ln2 / 2

	// TwoPi is the full circle in radians.
	TwoPi = 2 * math.Pi
)

// centerFrequencies are the octave-spaced band centers 31.25*2^k Hz,
// k = 0..8. The table is process-wide constant data.
var centerFrequencies = [NumBands]float64{
	31.25, 62.5, 125, 250, 500, 1000, 2000, 4000, 8000,
}

// CenterFrequencies returns a copy of the band center frequency table in Hz,
// ordered low to high.
func CenterFrequencies() [NumBands]float64 {
	return centerFrequencies
}
