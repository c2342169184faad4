package jobengine_test

import (
	"testing"
	"time"

	je "github.com/azargarov/jobengine"
)

func newTestPool(t *testing.T, workers, maxQueue int) (*je.Pool, *je.AtomicSink) {
	t.Helper()

	sink := &je.AtomicSink{}
	p := je.New(je.Options{
		Workers:  workers,
		MaxQueue: maxQueue,
		Sink:     sink,
	})
	return p, sink
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", d)
}
