package jobengine

import (
	"sync/atomic"
)

// Metric names reported by the pool. External exposers may remap them,
// but the pool always emits these.
const (
	MetricJobsSubmitted = "jobs_submitted_total"
	MetricJobsCompleted = "jobs_completed_total"
	MetricJobsFailed    = "jobs_failed_total"
	MetricActiveJobs    = "active_jobs"
	MetricJobLatency    = "job_latency_seconds"
)

// DefaultLatencyBuckets are the upper bounds, in seconds, of the job
// latency histogram.
var DefaultLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1.0, 2.0}

// MetricsSink is the observability boundary of the pool.
//
// Implementations must be safe for concurrent use. All methods are
// expected to be lightweight and non-blocking; unknown metric names
// must be ignored.
type MetricsSink interface {
	// Inc increments the named counter.
	Inc(name string)

	// Set sets the named gauge.
	Set(name string, v float64)

	// Observe records a sample into the named histogram.
	Observe(name string, v float64)
}

// AtomicSink is a lock-free in-memory MetricsSink backed by atomics.
//
// Writes are optimized for hot paths; the accessor methods are
// intended for cold-path observation and tests.
type AtomicSink struct {
	submitted atomic.Int64

	_ [56]byte // padding to avoid false sharing

	completed atomic.Int64

	_ [56]byte

	failed atomic.Int64

	_ [56]byte

	active atomic.Int64

	_ [56]byte

	latencyCount atomic.Int64

	// latencyBuckets counts samples per DefaultLatencyBuckets bound,
	// with one extra slot for samples above the last bound.
	latencyBuckets [8]atomic.Int64
}

// Inc increments the counter identified by name.
func (s *AtomicSink) Inc(name string) {
	switch name {
	case MetricJobsSubmitted:
		s.submitted.Add(1)
	case MetricJobsCompleted:
		s.completed.Add(1)
	case MetricJobsFailed:
		s.failed.Add(1)
	}
}

// Set sets the gauge identified by name.
func (s *AtomicSink) Set(name string, v float64) {
	if name == MetricActiveJobs {
		s.active.Store(int64(v))
	}
}

// Observe records a latency sample into its bucket.
func (s *AtomicSink) Observe(name string, v float64) {
	if name != MetricJobLatency {
		return
	}
	s.latencyCount.Add(1)
	for i, bound := range DefaultLatencyBuckets {
		if v <= bound {
			s.latencyBuckets[i].Add(1)
			return
		}
	}
	s.latencyBuckets[len(DefaultLatencyBuckets)].Add(1)
}

// Submitted returns the total number of accepted submissions.
func (s *AtomicSink) Submitted() int64 { return s.submitted.Load() }

// Completed returns the total number of jobs that finished normally.
func (s *AtomicSink) Completed() int64 { return s.completed.Load() }

// Failed returns the total number of failed jobs, including timeouts
// and pre-execution cancellations.
func (s *AtomicSink) Failed() int64 { return s.failed.Load() }

// Active returns the last observed active-jobs gauge value.
func (s *AtomicSink) Active() int64 { return s.active.Load() }

// LatencyCount returns the number of latency samples recorded.
func (s *AtomicSink) LatencyCount() int64 { return s.latencyCount.Load() }

// LatencyBucket returns the sample count of bucket i, where indexes
// follow DefaultLatencyBuckets and len(DefaultLatencyBuckets) is the
// overflow bucket.
func (s *AtomicSink) LatencyBucket(i int) int64 { return s.latencyBuckets[i].Load() }

//------------- NoopSink ----------------------------------

// NoopSink discards all metric updates. It is the default sink when
// none is configured.
type NoopSink struct{}

func (NoopSink) Inc(name string)                {}
func (NoopSink) Set(name string, v float64)     {}
func (NoopSink) Observe(name string, v float64) {}
