// Package conv provides the downstream convolution engine for synthesized
// impulse responses.
//
// Engine satisfies render.Convolver: a finished response buffer is handed
// over with SetImpulseResponse and swapped in atomically, so concurrent
// Process calls always see either the previous complete kernel or the new
// one, never a partial state. Convolution of program material against the
// current kernel runs offline, with FFT overlap-add for long kernels and
// direct time-domain convolution for short ones.
package conv
