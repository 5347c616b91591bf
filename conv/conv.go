package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution routines.
var (
	ErrEmptyInput  = errors.New("conv: empty input")
	ErrEmptyKernel = errors.New("conv: empty kernel")
	ErrNoKernel    = errors.New("conv: no impulse response loaded")
)

// directThreshold is the kernel length up to which direct time-domain
// convolution beats the FFT path.
const directThreshold = 64

// Direct performs direct time-domain linear convolution of signal and
// kernel, returning a new slice of length len(signal)+len(kernel)-1.
// Suitable for short kernels; longer kernels should go through Convolve.
func Direct(signal, kernel []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	out := make([]float64, len(signal)+len(kernel)-1)
	scaled := make([]float64, len(kernel))

	for i, x := range signal {
		vecmath.ScaleBlock(scaled, kernel, x)
		vecmath.AddBlockInPlace(out[i:i+len(kernel)], scaled)
	}

	return out, nil
}

// Convolve performs full linear convolution with automatic algorithm
// selection: direct for short kernels, FFT overlap-add otherwise.
func Convolve(signal, kernel []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	if len(kernel) <= directThreshold {
		return Direct(signal, kernel)
	}

	oa, err := newOverlapAdd(kernel)
	if err != nil {
		return nil, err
	}

	return oa.process(signal)
}

// nextPowerOf2 returns the smallest power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
