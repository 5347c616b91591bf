// Package tail synthesizes finite impulse responses for multiband late
// reverberation.
//
// A Synthesizer turns a per-band RT60 vector into a mono sample buffer:
// each of the nine octave-spaced bands contributes exponentially decaying
// noise shaped by a constant-Q two-pole bandpass filter, all bands
// accumulate into one shared buffer, and a half-Hann taper suppresses the
// onset. The finished buffer is meant to be loaded into a convolver node
// supplied by the host audio platform; the package produces data only and
// performs no signal routing itself.
//
// Synthesis is synchronous and allocation-per-pass. Callers on a real-time
// audio path should recompute through render.Renderer, which moves the work
// onto a background goroutine and hands completed buffers off atomically.
package tail
