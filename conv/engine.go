package conv

import (
	"sync/atomic"

	"github.com/GeoffreyPlitt/debuggo"
)

var warnf = debuggo.Debug("latereverb:conv")

// kernelState bundles an impulse response with its precomputed FFT form.
// States are immutable once published; replacement is a pointer swap.
type kernelState struct {
	samples    []float64
	sampleRate float64
	fft        *overlapAdd // nil for kernels short enough for Direct
}

// Engine convolves program material against the most recently loaded
// impulse response. It satisfies render.Convolver.
//
// SetImpulseResponse and Process may be called from different goroutines:
// the kernel is published through an atomic pointer, so a Process call sees
// either the previous complete kernel or the new one. Process itself holds
// per-kernel scratch state and is not reentrant.
type Engine struct {
	kernel atomic.Pointer[kernelState]
}

// NewEngine creates an engine with no impulse response loaded.
func NewEngine() *Engine {
	return &Engine{}
}

// SetImpulseResponse replaces the engine's kernel with a copy of samples at
// the given sample rate. The previous kernel stays active until the new one
// is fully prepared. An empty buffer or non-positive rate emits a warning
// and keeps the current kernel.
func (e *Engine) SetImpulseResponse(samples []float64, sampleRate float64) {
	if len(samples) == 0 || sampleRate <= 0 {
		warnf("rejecting impulse response: %d samples at %g Hz; keeping current kernel",
			len(samples), sampleRate)
		return
	}

	st := &kernelState{
		samples:    append([]float64(nil), samples...),
		sampleRate: sampleRate,
	}

	if len(st.samples) > directThreshold {
		fft, err := newOverlapAdd(st.samples)
		if err != nil {
			warnf("rejecting impulse response: %v; keeping current kernel", err)
			return
		}

		st.fft = fft
	}

	e.kernel.Store(st)
}

// Process convolves input against the current kernel, returning the full
// linear convolution of length len(input)+KernelLen()-1. It fails with
// ErrNoKernel before the first successful SetImpulseResponse.
func (e *Engine) Process(input []float64) ([]float64, error) {
	st := e.kernel.Load()
	if st == nil {
		return nil, ErrNoKernel
	}

	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	if st.fft != nil {
		return st.fft.process(input)
	}

	return Direct(input, st.samples)
}

// KernelLen returns the current kernel length in samples, 0 when none is
// loaded.
func (e *Engine) KernelLen() int {
	if st := e.kernel.Load(); st != nil {
		return len(st.samples)
	}

	return 0
}

// SampleRate returns the current kernel's sample rate in Hz, 0 when none is
// loaded.
func (e *Engine) SampleRate() float64 {
	if st := e.kernel.Load(); st != nil {
		return st.sampleRate
	}

	return 0
}
