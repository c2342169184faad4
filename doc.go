// Package jobengine provides an in-process job execution engine:
// a fixed-size worker pool fed by a bounded priority queue, with
// per-job timeout, cooperative cancellation, bounded retry, result
// futures, and a metrics side-channel.
//
// Architecture overview
//
// The engine is composed of three tightly coupled layers:
//
//   1. Queueing (JobQueue)
//      A bounded priority queue guarded by one mutex and two condition
//      variables. Producers block while the queue is full; consumers
//      block while it is empty. Shutdown wakes every waiter so that
//      blocked producers return without enqueueing and blocked
//      consumers observe the closed sentinel.
//
//   2. Execution (Pool / workers)
//      N worker goroutines contend on the shared queue. Each worker
//      pops the highest-priority job, checks its cancel flag, runs it
//      (optionally under a timeout guard), and records the terminal
//      outcome exactly once.
//
//   3. Job lifecycle
//      Jobs carry metadata (identity, priority, retry budget, timeout,
//      cancel flag) and an execution function returning an error.
//      Result-returning submissions additionally carry a write-once
//      Future completed by the executing worker.
//
// Queue design
//
// Ordering is priority-descending with FIFO among equal priorities.
// The queue stamps every accepted job with a monotonically increasing
// sequence number; the heap breaks priority ties on that sequence, so
// dispatch order is deterministic.
//
// Retry model
//
// A task signals failure by returning an error (panics are recovered
// and converted). A failed, retry-eligible job is re-enqueued at its
// original priority after a backoff delay; the worker is never held
// across the delay. Retries are bounded by the job's MaxRetries.
// Timed-out and cancelled jobs are never retried.
//
// Cancellation and timeouts
//
// Cancellation is cooperative. Setting the cancel flag before dispatch
// prevents the task from running at all; once a task is running, it is
// expected to poll its context or the flag. A job with a timeout runs
// on an inner goroutine: when the deadline expires the pool cancels the
// job context, sets the cancel flag, counts the job as failed, and
// abandons the goroutine. The abandoned goroutine exits when the task
// next observes cancellation or returns; it can no longer complete the
// future or touch the counters.
//
// Shutdown
//
// Shutdown first waits, up to a deadline, for every accepted job to
// reach a terminal state, then closes the queue and joins the workers.
// The drain is best effort: jobs still queued when the deadline trips
// may or may not run, and a running job finishes unless its own
// timeout fires first.
//
// Metrics
//
// The pool reports through the MetricsSink interface. AtomicSink is an
// in-memory implementation for tests and embedding; the prom
// subpackage exposes the same names through a Prometheus registry.
package jobengine
