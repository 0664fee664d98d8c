// Package speech runs the asynchronous speaking pipeline: arbitrated
// feedback goes into a FIFO queue, a single worker synthesizes each entry
// and plays it through a Sink.
//
// Priority utterances drain the pending backlog so a safety cue is never
// stuck behind stale encouragement, but an utterance already being spoken
// always finishes. Interrupting mid-phrase sounds broken.
package speech

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/tts"
)

// Sink plays a synthesized clip to completion.
type Sink interface {
	Play(ctx context.Context, clip *tts.Clip) error
}

// ShutdownGrace bounds how long Shutdown waits for the worker to finish the
// utterance in flight before cancelling it.
const ShutdownGrace = 2 * time.Second

// Dispatcher owns the speech queue and its worker goroutine.
type Dispatcher struct {
	provider tts.Provider
	sink     Sink

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	closed bool

	done     chan struct{}
	speaking atomic.Bool
	spoken   atomic.Int64
	dropped  atomic.Int64
}

// NewDispatcher creates a dispatcher and starts its worker.
func NewDispatcher(provider tts.Provider, sink Sink) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		provider: provider,
		sink:     sink,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.worker()
	return d
}

// Speak enqueues text for synthesis and playout. It never blocks.
//
// With priority set, the pending backlog is discarded first; the utterance
// currently being spoken is not interrupted. Empty or all-markup text is
// ignored, as is any call after Shutdown.
func (d *Dispatcher) Speak(text string, priority bool) {
	text = Sanitize(text)
	if text == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if priority && len(d.queue) > 0 {
		d.dropped.Add(int64(len(d.queue)))
		d.queue = d.queue[:0]
	}
	d.queue = append(d.queue, text)
	d.cond.Signal()
}

// Clear discards all pending utterances without speaking anything.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropped.Add(int64(len(d.queue)))
	d.queue = d.queue[:0]
}

// Busy reports whether an utterance is being synthesized or played.
func (d *Dispatcher) Busy() bool {
	return d.speaking.Load()
}

// Pending returns the queue depth.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Spoken returns how many utterances completed playout.
func (d *Dispatcher) Spoken() int64 {
	return d.spoken.Load()
}

// Dropped returns how many queued utterances were discarded by priority
// drains and Clear.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Shutdown stops accepting new utterances and waits up to ShutdownGrace for
// the worker to drain. Past the grace period, the utterance in flight is
// cancelled.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.cond.Signal()
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-time.After(ShutdownGrace):
		log.Warn("speech: shutdown grace expired, cancelling playback")
		d.cancel()
		<-d.done
	}
}

// worker is the single consumer of the queue.
func (d *Dispatcher) worker() {
	defer close(d.done)
	defer d.cancel()

	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		text := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.speakOne(text)

		if d.ctx.Err() != nil {
			return
		}
	}
}

// speakOne synthesizes and plays a single utterance. Failures are logged
// and the worker moves on; one bad round trip must not silence the session.
func (d *Dispatcher) speakOne(text string) {
	d.speaking.Store(true)
	defer d.speaking.Store(false)

	clip, err := d.provider.Synthesize(d.ctx, text)
	if err != nil {
		log.Error("speech: synthesis failed", "error", err, "chars", len(text))
		return
	}

	if err := d.sink.Play(d.ctx, clip); err != nil {
		log.Error("speech: playback failed", "error", err)
		return
	}

	d.spoken.Add(1)
	log.Debug("speech: spoke utterance", "chars", len(text))
}
