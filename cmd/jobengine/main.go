// Command jobengine runs a demo workload against the pool: a batch of
// memoized computations, one result-returning job, and optional retry
// and timeout demonstrations, all observable on a Prometheus endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/azargarov/jobengine"
	"github.com/azargarov/jobengine/prom"
)

func main() {
	threads := flag.Int("threads", 4, "number of worker goroutines")
	maxQueue := flag.Int("max-queue", 64, "job queue capacity")
	timeout := flag.Uint("timeout", 5, "shutdown drain deadline in seconds")
	jobTimeout := flag.Duration("job-timeout", 0, "per-job wall-clock deadline (0 disables)")
	testRetry := flag.Bool("test-retry", false, "submit an always-failing job to demonstrate retry")
	metricsAddr := flag.String("metrics-addr", "127.0.0.1:8080", "address for the /metrics endpoint")
	submitRate := flag.Float64("submit-rate", 0, "submissions per second (0 = unpaced)")
	numJobs := flag.Int("jobs", 10, "number of demo jobs to submit")
	flag.Parse()

	if *threads < 1 || *maxQueue < 1 || *numJobs < 0 || *submitRate < 0 || *jobTimeout < 0 {
		fmt.Fprintln(os.Stderr, "jobengine: invalid configuration")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := lg.FromContext(ctx)

	sink := prom.NewSink()
	prom.StartServer(ctx, *metricsAddr, sink)
	logger.Info("metrics exposed", lg.String("addr", *metricsAddr))

	pool := jobengine.New(jobengine.Options{
		Workers:      *threads,
		MaxQueue:     *maxQueue,
		DefaultRetry: jobengine.DefaultRetryPolicy(),
		Sink:         sink,
		Ctx:          ctx,
	})

	var limiter *rate.Limiter
	if *submitRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(*submitRate), 1)
	}

	memo := jobengine.NewLRUCache[int, uint64](32)

	for i := 0; i < *numJobs; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}
		n := 20 + i%20
		meta := &jobengine.JobMetadata{
			ID:      int64(i),
			Name:    "fib-" + uuid.NewString()[:8],
			Timeout: *jobTimeout,
		}
		err := pool.Submit(meta, func(jobCtx context.Context) error {
			v := fib(memo, n)
			lg.FromContext(jobCtx).Info("computed",
				lg.Int("n", n),
				lg.Any("fib", v))
			return nil
		})
		if err != nil {
			logger.Error("submit failed", lg.Any("error", err))
			break
		}
	}

	if *testRetry {
		meta := &jobengine.JobMetadata{
			Name:       "retry-demo",
			MaxRetries: 2,
			AllowRetry: true,
		}
		if err := pool.Submit(meta, func(context.Context) error {
			return errors.New("transient demo failure")
		}); err != nil {
			logger.Error("submit failed", lg.Any("error", err))
		}
	}

	fut, err := jobengine.SubmitWithResult(pool, &jobengine.JobMetadata{Name: "answer"},
		func(jobCtx context.Context) (int, error) {
			select {
			case <-time.After(500 * time.Millisecond):
				return 42, nil
			case <-jobCtx.Done():
				return 0, jobCtx.Err()
			}
		})
	if err != nil {
		logger.Error("submit failed", lg.Any("error", err))
	} else {
		logger.Info("waiting for result...")
		if v, err := fut.Get(ctx); err != nil {
			logger.Error("result failed", lg.Any("error", err))
		} else {
			logger.Info("result received", lg.Int("value", v))
		}
	}

	if err := pool.Shutdown(time.Duration(*timeout) * time.Second); err != nil {
		logger.Warn("shutdown was forced", lg.Any("error", err))
	}
}

// fib computes the n-th Fibonacci number, memoizing through the cache
// so repeated demo jobs hit instead of recomputing.
func fib(memo *jobengine.LRUCache[int, uint64], n int) uint64 {
	if v, ok := memo.Get(n); ok {
		return v
	}
	var a, b uint64 = 0, 1
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	memo.Put(n, a)
	return a
}
