package jobengine

import (
	"context"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Future is a write-once result slot bridging a submitter and the
// worker that executes its job. Exactly one terminal transition
// happens: a value or an error. Later completion attempts (a timed-out
// task finishing after the pool already failed the job, say) are
// logged and dropped; the first terminal state wins.
type Future[R any] struct {
	done chan struct{}
	once sync.Once
	val  R
	err  error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

func (f *Future[R]) complete(v R, err error) {
	won := false
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
		won = true
	})
	if !won {
		lg.FromContext(context.Background()).Warn("future already completed; result dropped",
			lg.Any("error", err))
	}
}

// Done returns a channel closed when the future reaches its terminal
// state.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Get blocks until the future completes or ctx is done, and returns
// the job's value or error.
func (f *Future[R]) Get(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}
