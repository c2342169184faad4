package jobengine

import (
	"context"
	"sync/atomic"
	"time"
)

// Task is the function executed by a worker for a job. The context is
// cancelled when the job times out or the pool cancels the job; tasks
// that may run long should poll it.
type Task func(ctx context.Context) error

// JobMetadata describes a job submitted to the pool.
//
// ID and Name are caller-supplied and used for logging only; the pool
// does not require IDs to be unique. Priority orders dispatch (higher
// first, FIFO among equals, default 0). MaxRetries bounds re-execution
// after task errors; CurrentRetry is maintained by the executing
// worker. Timeout of zero disables the deadline.
//
// The cancel flag is the only field safe to touch while the job is in
// flight: Cancel may be called from any goroutine.
type JobMetadata struct {
	ID           int64
	Name         string
	Priority     int
	MaxRetries   uint32
	CurrentRetry uint32

	// AllowRetry is the master retry switch. Submissions that return a
	// Future force it to false: retrying would allow a second completion.
	AllowRetry bool

	Timeout time.Duration

	// SubmittedAt is stamped by the pool at submission, before the job
	// is pushed onto the queue.
	SubmittedAt time.Time

	cancelled atomic.Bool
}

// Cancel requests cooperative cancellation. A job cancelled before
// dispatch never runs; a running task observes the request through its
// context or by polling Cancelled.
func (m *JobMetadata) Cancel() { m.cancelled.Store(true) }

// Cancelled reports whether cancellation has been requested.
func (m *JobMetadata) Cancelled() bool { return m.cancelled.Load() }

// Job binds metadata to a task. Jobs are created by the pool's submit
// paths; the zero value is not usable.
type Job struct {
	Meta *JobMetadata
	Run  Task

	// seq is stamped by the queue on accepted push and breaks priority
	// ties FIFO.
	seq uint64

	// fail delivers a terminal error to the job's future, if it has one.
	fail func(err error)

	// nextDelay yields the backoff delay before the next retry attempt.
	// Nil means re-enqueue immediately.
	nextDelay func() time.Duration
}
