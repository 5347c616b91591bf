// Package render moves impulse-response recomputation off the real-time
// audio path. A Renderer owns a tail.Synthesizer, runs duration updates on a
// background goroutine, and hands each completed buffer to a Convolver as a
// single full replacement. Updates coalesce: when several arrive while a
// pass is running, only the most recent vector is synthesized.
package render

import (
	"sync"

	"github.com/cwbudde/algo-latereverb/tail"
)

// Convolver is the narrow contract the host's convolution node must satisfy.
// SetImpulseResponse receives a complete buffer the renderer will never
// mutate afterwards; implementations must install it atomically with respect
// to their own rendering.
type Convolver interface {
	SetImpulseResponse(samples []float64, sampleRate float64)
}

// Renderer drives a Synthesizer from a control thread without blocking it on
// synthesis work.
type Renderer struct {
	synth *tail.Synthesizer
	dst   Convolver

	mu         sync.Mutex
	cond       *sync.Cond
	pending    []float64 // most recent queued duration vector
	hasPending bool      // pending holds a vector; the vector itself may be empty
	busy       bool
	closed     bool

	done chan struct{}
}

// NewRenderer wraps synth, hands its current response to dst, and starts the
// background worker.
func NewRenderer(synth *tail.Synthesizer, dst Convolver) *Renderer {
	r := &Renderer{
		synth: synth,
		dst:   dst,
		done:  make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.mu)

	dst.SetImpulseResponse(synth.ImpulseResponse(), synth.SampleRate())

	go r.loop()

	return r
}

// Update queues a per-band RT60 vector for synthesis and returns
// immediately. A queued vector that has not started yet is replaced.
// Validation happens in the synthesizer: a wrong-length vector, empty
// included, ends up a warned no-op there and triggers no handoff. Calls
// after Close are ignored.
func (r *Renderer) Update(durations []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.pending = append([]float64(nil), durations...)
	r.hasPending = true
	r.cond.Broadcast()
}

// Flush blocks until every previously queued update has been synthesized and
// handed off.
func (r *Renderer) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.hasPending || r.busy {
		r.cond.Wait()
	}
}

// Close stops the worker after finishing any queued update. It is safe to
// call more than once.
func (r *Renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done

		return
	}

	r.closed = true
	r.cond.Broadcast()
	r.mu.Unlock()

	<-r.done
}

func (r *Renderer) loop() {
	defer close(r.done)

	r.mu.Lock()

	for {
		for !r.hasPending && !r.closed {
			r.cond.Wait()
		}

		if !r.hasPending && r.closed {
			r.mu.Unlock()
			return
		}

		durations := r.pending
		r.pending = nil
		r.hasPending = false
		r.busy = true
		r.mu.Unlock()

		// A rejected vector leaves the response untouched; re-sending it
		// would only force the consumer through a redundant kernel rebuild.
		if r.synth.SetDurations(durations) {
			r.dst.SetImpulseResponse(r.synth.ImpulseResponse(), r.synth.SampleRate())
		}

		r.mu.Lock()
		r.busy = false
		r.cond.Broadcast()
	}
}
