package jobengine

import (
	"context"
	"runtime"
)

const (
	// DefaultMaxQueue bounds the job queue when Options.MaxQueue is
	// left zero.
	DefaultMaxQueue = 64
)

// Options configure a Pool.
//
// Zero values are replaced with sensible defaults in FillDefaults,
// except DefaultRetry: a zero policy means failed jobs re-enqueue
// without delay.
type Options struct {
	// Workers is the number of worker goroutines.
	Workers int

	// MaxQueue is the capacity of the job queue. Producers block once
	// it fills.
	MaxQueue int

	// DefaultRetry paces the delay before a failed job is re-enqueued.
	DefaultRetry RetryPolicy

	// Sink receives the pool's counters, gauge, and latency histogram.
	Sink MetricsSink

	// Ctx carries the logger used by the pool and is passed to tasks
	// as the parent of their per-attempt context.
	Ctx context.Context
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MaxQueue <= 0 {
		o.MaxQueue = DefaultMaxQueue
	}
	if o.Sink == nil {
		o.Sink = NoopSink{}
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}
