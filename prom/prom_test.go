package prom_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/azargarov/jobengine"
	"github.com/azargarov/jobengine/prom"
)

func TestSinkCounters(t *testing.T) {
	s := prom.NewSink()

	s.Inc(jobengine.MetricJobsSubmitted)
	s.Inc(jobengine.MetricJobsSubmitted)
	s.Inc("unknown_counter") // ignored

	expected := `
# HELP jobs_submitted_total Total number of jobs submitted
# TYPE jobs_submitted_total counter
jobs_submitted_total 2
`
	if err := testutil.GatherAndCompare(s.Registry(), strings.NewReader(expected),
		jobengine.MetricJobsSubmitted); err != nil {
		t.Fatal(err)
	}
}

func TestSinkGauge(t *testing.T) {
	s := prom.NewSink()

	s.Set(jobengine.MetricActiveJobs, 3)

	expected := `
# HELP active_jobs Current number of active jobs
# TYPE active_jobs gauge
active_jobs 3
`
	if err := testutil.GatherAndCompare(s.Registry(), strings.NewReader(expected),
		jobengine.MetricActiveJobs); err != nil {
		t.Fatal(err)
	}
}

func TestSinkHistogram(t *testing.T) {
	s := prom.NewSink()

	s.Observe(jobengine.MetricJobLatency, 0.02)
	s.Observe(jobengine.MetricJobLatency, 0.7)

	n, err := testutil.GatherAndCount(s.Registry(), jobengine.MetricJobLatency)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("gathered %d metrics; want 1", n)
	}
}

func TestSinksAreIndependent(t *testing.T) {
	a := prom.NewSink()
	b := prom.NewSink() // must not panic on duplicate registration

	a.Inc(jobengine.MetricJobsFailed)

	expected := `
# HELP jobs_failed_total Total number of jobs failed
# TYPE jobs_failed_total counter
jobs_failed_total 0
`
	if err := testutil.GatherAndCompare(b.Registry(), strings.NewReader(expected),
		jobengine.MetricJobsFailed); err != nil {
		t.Fatal(err)
	}
}
