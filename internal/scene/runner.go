package scene

import (
	"context"
	"errors"
)

// ErrRunnerStopped is returned by Do once the runner has exited.
var ErrRunnerStopped = errors.New("scene: runner stopped")

type operation struct {
	fn   func(*Store)
	done chan struct{}
}

// Runner owns a Store on a single goroutine. Callers from any goroutine
// hand it mutations with Do; they execute one at a time in submission order.
//
// Thread Safety:
//   - Do is safe for concurrent use
//   - The Store itself has no locks; every read and write must go through Do
//   - A function passed to Do must not call Do, or it deadlocks
type Runner struct {
	store *Store
	ops   chan operation
	quit  chan struct{}
}

// NewRunner wraps store. The caller must not touch store directly once Run
// has started.
func NewRunner(store *Store) *Runner {
	return &Runner{
		store: store,
		ops:   make(chan operation),
		quit:  make(chan struct{}),
	}
}

// Run executes queued mutations until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.quit)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-r.ops:
			op.fn(r.store)
			close(op.done)
		}
	}
}

// Do runs fn against the store on the runner goroutine and waits for it to
// return. Once fn has started, it completes even if ctx is cancelled.
func (r *Runner) Do(ctx context.Context, fn func(*Store)) error {
	op := operation{fn: fn, done: make(chan struct{})}

	select {
	case r.ops <- op:
	case <-r.quit:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	<-op.done
	return nil
}
