package jobengine_test

import (
	"testing"

	je "github.com/azargarov/jobengine"
)

func TestAtomicSinkCounters(t *testing.T) {
	s := &je.AtomicSink{}

	s.Inc(je.MetricJobsSubmitted)
	s.Inc(je.MetricJobsSubmitted)
	s.Inc(je.MetricJobsCompleted)
	s.Inc(je.MetricJobsFailed)
	s.Inc("unknown_counter") // ignored

	if got := s.Submitted(); got != 2 {
		t.Errorf("submitted = %d; want 2", got)
	}
	if got := s.Completed(); got != 1 {
		t.Errorf("completed = %d; want 1", got)
	}
	if got := s.Failed(); got != 1 {
		t.Errorf("failed = %d; want 1", got)
	}
}

func TestAtomicSinkGauge(t *testing.T) {
	s := &je.AtomicSink{}

	s.Set(je.MetricActiveJobs, 7)
	if got := s.Active(); got != 7 {
		t.Errorf("active = %d; want 7", got)
	}
	s.Set(je.MetricActiveJobs, 0)
	if got := s.Active(); got != 0 {
		t.Errorf("active = %d; want 0", got)
	}
	s.Set("unknown_gauge", 99) // ignored
	if got := s.Active(); got != 0 {
		t.Errorf("active after unknown set = %d; want 0", got)
	}
}

func TestAtomicSinkHistogram(t *testing.T) {
	s := &je.AtomicSink{}

	s.Observe(je.MetricJobLatency, 0.02)  // bucket 0.05
	s.Observe(je.MetricJobLatency, 0.005) // bucket 0.01
	s.Observe(je.MetricJobLatency, 5.0)   // overflow
	s.Observe("unknown_hist", 1.0)        // ignored

	if got := s.LatencyCount(); got != 3 {
		t.Errorf("latency count = %d; want 3", got)
	}
	if got := s.LatencyBucket(0); got != 1 {
		t.Errorf("bucket 0.01 = %d; want 1", got)
	}
	if got := s.LatencyBucket(1); got != 1 {
		t.Errorf("bucket 0.05 = %d; want 1", got)
	}
	if got := s.LatencyBucket(len(je.DefaultLatencyBuckets)); got != 1 {
		t.Errorf("overflow bucket = %d; want 1", got)
	}
}
