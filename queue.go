package jobengine

import (
	"container/heap"
	"sync"
)

// JobQueue is a bounded, blocking priority queue with shutdown
// semantics.
//
// Push blocks while the queue is full and returns false without
// enqueueing once shutdown has been requested. Pop blocks while the
// queue is empty and returns (nil, false) — the closed sentinel — once
// the queue is shut down and drained. Jobs are popped in priority
// order, highest first, FIFO among equal priorities.
//
// All state is guarded by one mutex and two condition variables
// (not-full for producers, not-empty for consumers).
type JobQueue struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	jobs     jobHeap
	capacity int
	seq      uint64
	closed   bool
}

// NewJobQueue creates a queue holding at most capacity jobs.
// Capacities below one are clamped to one.
func NewJobQueue(capacity int) *JobQueue {
	if capacity < 1 {
		capacity = 1
	}
	q := &JobQueue{
		jobs:     make(jobHeap, 0, capacity),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push inserts a job, blocking while the queue is full. It reports
// whether the job was enqueued; false means the queue was shut down,
// either before the call or while the producer was blocked.
func (q *JobQueue) Push(j *Job) bool {
	q.mu.Lock()
	for len(q.jobs) == q.capacity && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.seq++
	j.seq = q.seq
	heap.Push(&q.jobs, j)
	q.mu.Unlock()
	q.notEmpty.Signal()
	return true
}

// Pop removes and returns the highest-priority job, blocking while the
// queue is empty. Once the queue is shut down, Pop keeps returning
// queued jobs until the queue drains, then returns (nil, false).
func (q *JobQueue) Pop() (*Job, bool) {
	q.mu.Lock()
	for len(q.jobs) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.jobs) == 0 {
		q.mu.Unlock()
		return nil, false
	}
	j := heap.Pop(&q.jobs).(*Job)
	q.mu.Unlock()
	q.notFull.Signal()
	return j, true
}

// TryPop removes and returns the highest-priority job without
// blocking. It returns (nil, false) when the queue is empty.
func (q *JobQueue) TryPop() (*Job, bool) {
	q.mu.Lock()
	if len(q.jobs) == 0 {
		q.mu.Unlock()
		return nil, false
	}
	j := heap.Pop(&q.jobs).(*Job)
	q.mu.Unlock()
	q.notFull.Signal()
	return j, true
}

// Len returns the number of queued jobs.
func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Empty reports whether the queue holds no jobs.
func (q *JobQueue) Empty() bool { return q.Len() == 0 }

// IsShutdown reports whether Shutdown has been called.
func (q *JobQueue) IsShutdown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Shutdown closes the queue and wakes every blocked producer and
// consumer. The flag is monotone; calling Shutdown again has no
// further effect.
func (q *JobQueue) Shutdown() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}
