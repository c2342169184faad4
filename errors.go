package jobengine

import (
	"errors"
)

var (
	// ErrPoolClosed is returned by Submit once Shutdown has finished its
	// drain wait and closed the queue.
	ErrPoolClosed = errors.New("jobengine: pool closed")

	// ErrNilTask is returned when a submitted job has a nil task.
	ErrNilTask = errors.New("jobengine: task is nil")

	// ErrJobTimeout is the failure a job's future receives when its
	// wall-clock deadline expires before the task returns.
	ErrJobTimeout = errors.New("jobengine: job timed out")

	// ErrJobCancelled is the failure a job's future receives when its
	// cancel flag was set before the task started.
	ErrJobCancelled = errors.New("jobengine: job cancelled")

	// ErrDrainTimeout is returned by Shutdown when the drain deadline
	// expired while jobs were still in flight. Shutdown still completes;
	// the error only reports that the drain was forced.
	ErrDrainTimeout = errors.New("jobengine: shutdown drain deadline exceeded")
)
