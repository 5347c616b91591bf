// Package decay estimates reverberation decay from synthesized impulse
// responses. It backs the verification of RT60 targets: the Schroeder
// integral converts a noisy tail into a smooth energy decay curve, and
// linear regression on that curve extrapolates the -60 dB time.
package decay

import (
	"errors"
	"math"
)

// Errors returned by decay analysis.
var (
	ErrEmptyResponse     = errors.New("decay: impulse response is empty")
	ErrInvalidSampleRate = errors.New("decay: sample rate must be positive")
	ErrNoDecay           = errors.New("decay: insufficient decay for estimation")
)

// Analyzer computes decay metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an analyzer for the given sample rate in Hz.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Schroeder returns the backward-integrated energy decay curve of ir in dB,
// normalized to 0 dB at the start:
//
//	S(t) = 10*log10( sum_{n>=t} ir[n]^2 / sum_n ir[n]^2 )
func (a *Analyzer) Schroeder(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyResponse
	}

	return a.schroeder(ir), nil
}

// ReverbTime estimates the RT60 of ir. It regresses the Schroeder curve over
// the -5..-35 dB range (T30) and extrapolates to -60 dB, falling back to the
// -5..-25 dB range (T20) when the tail is too short.
func (a *Analyzer) ReverbTime(ir []float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyResponse
	}

	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	curve := a.schroeder(ir)

	if rt := a.regressDecay(curve, -5, -35); rt > 0 {
		return rt, nil
	}

	if rt := a.regressDecay(curve, -5, -25); rt > 0 {
		return rt, nil
	}

	return 0, ErrNoDecay
}

// PeakIndex returns the index of the absolute maximum of ir.
func (a *Analyzer) PeakIndex(ir []float64) int {
	idx := 0
	peak := 0.0

	for i, v := range ir {
		if av := math.Abs(v); av > peak {
			peak = av
			idx = i
		}
	}

	return idx
}

func (a *Analyzer) schroeder(ir []float64) []float64 {
	n := len(ir)
	curve := make([]float64, n)

	var cum float64
	for i := n - 1; i >= 0; i-- {
		cum += ir[i] * ir[i]
		curve[i] = cum
	}

	total := curve[0]
	if total <= 0 {
		return curve
	}

	const floorDB = -200

	for i := range curve {
		ratio := curve[i] / total
		if ratio <= 0 {
			curve[i] = floorDB
		} else {
			curve[i] = 10 * math.Log10(ratio)
		}
	}

	return curve
}

// regressDecay fits a line to the Schroeder curve between startDB and endDB
// and extrapolates the slope to -60 dB. Returns 0 when the curve never
// reaches the range or does not decay.
func (a *Analyzer) regressDecay(curve []float64, startDB, endDB float64) float64 {
	startIdx, endIdx := -1, -1

	for i, v := range curve {
		if startIdx < 0 && v <= startDB {
			startIdx = i
		}

		if startIdx >= 0 && v <= endDB {
			endIdx = i
			break
		}
	}

	if startIdx < 0 || endIdx <= startIdx {
		return 0
	}

	n := float64(endIdx - startIdx + 1)

	var sumX, sumY, sumXX, sumXY float64

	for i := startIdx; i <= endIdx; i++ {
		x := float64(i - startIdx)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (n*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	rt := -60.0 / (slope * a.SampleRate)
	if rt < 0 {
		return 0
	}

	return rt
}
