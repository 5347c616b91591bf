package conv

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-latereverb/internal/testutil"
)

func randSignal(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}

	return out
}

// naiveConvolve is the O(N*M) reference.
func naiveConvolve(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i := range a {
		for j := range b {
			out[i+j] += a[i] * b[j]
		}
	}

	return out
}

func TestDirect_MatchesNaive(t *testing.T) {
	a := randSignal(100, 1)
	b := randSignal(17, 2)

	got, err := Direct(a, b)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}

	testutil.RequireSliceNear(t, got, naiveConvolve(a, b), 1e-12)
}

func TestDirect_Identity(t *testing.T) {
	a := randSignal(64, 3)

	got, err := Direct(a, []float64{1})
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}

	testutil.RequireSliceNear(t, got, a, 0)
}

func TestConvolve_FFTMatchesNaive(t *testing.T) {
	// Kernel above directThreshold forces the overlap-add path.
	a := randSignal(2000, 4)
	b := randSignal(300, 5)

	got, err := Convolve(a, b)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}

	want := naiveConvolve(a, b)
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}

	testutil.RequireSliceNear(t, got, want, 1e-9)
}

func TestConvolve_EmptyInputs(t *testing.T) {
	if _, err := Convolve(nil, []float64{1}); err != ErrEmptyInput {
		t.Errorf("empty signal: err = %v, want ErrEmptyInput", err)
	}

	if _, err := Convolve([]float64{1}, nil); err != ErrEmptyKernel {
		t.Errorf("empty kernel: err = %v, want ErrEmptyKernel", err)
	}
}

func TestEngine_NoKernel(t *testing.T) {
	e := NewEngine()

	if _, err := e.Process([]float64{1, 2, 3}); err != ErrNoKernel {
		t.Errorf("Process without kernel: err = %v, want ErrNoKernel", err)
	}

	if got := e.KernelLen(); got != 0 {
		t.Errorf("KernelLen() = %d, want 0", got)
	}

	if got := e.SampleRate(); got != 0 {
		t.Errorf("SampleRate() = %g, want 0", got)
	}
}

func TestEngine_ProcessShortKernel(t *testing.T) {
	e := NewEngine()
	kernel := randSignal(32, 6)
	e.SetImpulseResponse(kernel, 48000)

	if got := e.KernelLen(); got != 32 {
		t.Fatalf("KernelLen() = %d, want 32", got)
	}

	if got := e.SampleRate(); got != 48000 {
		t.Fatalf("SampleRate() = %g, want 48000", got)
	}

	in := randSignal(500, 7)

	got, err := e.Process(in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	testutil.RequireSliceNear(t, got, naiveConvolve(in, kernel), 1e-12)
}

func TestEngine_ProcessLongKernel(t *testing.T) {
	e := NewEngine()
	kernel := randSignal(1000, 8)
	e.SetImpulseResponse(kernel, 44100)

	in := randSignal(4096, 9)

	got, err := e.Process(in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	testutil.RequireSliceNear(t, got, naiveConvolve(in, kernel), 1e-8)
}

func TestEngine_ReplacementIsFull(t *testing.T) {
	e := NewEngine()

	e.SetImpulseResponse([]float64{1, 0, 0}, 48000)
	e.SetImpulseResponse([]float64{0, 1}, 48000)

	got, err := e.Process([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// Only the second kernel (one-sample delay) must be audible.
	testutil.RequireSliceNear(t, got, []float64{0, 1, 2, 3}, 1e-12)
}

func TestEngine_RejectsEmptyBuffer(t *testing.T) {
	e := NewEngine()
	e.SetImpulseResponse([]float64{0.5}, 48000)

	e.SetImpulseResponse(nil, 48000)
	e.SetImpulseResponse([]float64{1}, 0)

	if got := e.KernelLen(); got != 1 {
		t.Errorf("KernelLen() = %d, want 1 (previous kernel retained)", got)
	}

	got, err := e.Process([]float64{2})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if math.Abs(got[0]-1) > 1e-15 {
		t.Errorf("Process = %v, want [1]", got)
	}
}

func TestEngine_KernelCopied(t *testing.T) {
	e := NewEngine()

	kernel := []float64{1, 0}
	e.SetImpulseResponse(kernel, 48000)
	kernel[0] = 99

	got, err := e.Process([]float64{1})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got[0] != 1 {
		t.Errorf("Process = %v, want caller mutation invisible", got)
	}
}
