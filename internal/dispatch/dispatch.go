// Package dispatch serializes concurrent callers onto a single Engine.
// Submission and cancellation both mutate the book and the order index;
// spec.md §5 requires that no two such operations ever interleave. Rather
// than rely solely on Engine's own mutex, dispatch funnels every operation
// through one supervised goroutine — the same tomb.Tomb-backed worker
// pattern the retrieval pack's exchange service uses for its connection
// handlers — sized down to exactly one worker.
package dispatch

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

// ErrClosed is returned by Submit when the dispatcher has stopped
// accepting work, either because Shutdown was called or the supervised
// goroutine died.
var ErrClosed = errors.New("dispatch: closed")

const taskQueueSize = 256

type task struct {
	run  func()
	done chan struct{}
}

// Dispatcher runs every submitted task on a single goroutine, giving the
// Engine calls behind it strict serial ordering regardless of how many
// goroutines call Submit concurrently.
type Dispatcher struct {
	t      *tomb.Tomb
	tasks  chan task
	logger zerolog.Logger
}

// New starts the dispatcher's worker goroutine under ctx and returns once
// it is ready to accept work. Call Shutdown to stop it.
func New(ctx context.Context, logger zerolog.Logger) *Dispatcher {
	t, ctx := tomb.WithContext(ctx)
	d := &Dispatcher{
		t:      t,
		tasks:  make(chan task, taskQueueSize),
		logger: logger,
	}

	t.Go(func() error {
		return d.run(ctx)
	})

	return d
}

func (d *Dispatcher) run(ctx context.Context) error {
	d.logger.Info().Msg("dispatch worker starting")
	for {
		select {
		case <-d.t.Dying():
			d.logger.Info().Msg("dispatch worker stopping")
			return nil
		case tk := <-d.tasks:
			tk.run()
			close(tk.done)
		}
	}
}

// Submit enqueues fn to run on the dispatcher's single worker goroutine
// and blocks until it has finished (or ctx is cancelled, or the
// dispatcher has been shut down). It is the caller's job to capture fn's
// result by reference.
func (d *Dispatcher) Submit(ctx context.Context, fn func()) error {
	tk := task{run: fn, done: make(chan struct{})}

	select {
	case <-d.t.Dying():
		return ErrClosed
	case d.tasks <- tk:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-tk.done:
		return nil
	case <-d.t.Dying():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting new work and waits for the worker goroutine to
// exit.
func (d *Dispatcher) Shutdown() error {
	d.t.Kill(nil)
	return d.t.Wait()
}
