package jobengine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

const defaultDrainDeadline = 30 * time.Second

// Pool executes submitted jobs on a fixed set of worker goroutines
// bound to one shared bounded priority queue.
//
// Every accepted submission reaches exactly one terminal outcome —
// completion, permanent failure, timeout, or cancellation — and the
// active-jobs gauge is decremented exactly once when it does.
type Pool struct {
	queue *JobQueue
	opts  Options
	sink  MetricsSink
	ctx   context.Context

	wg      sync.WaitGroup
	running atomic.Bool

	// inProgress counts accepted jobs that have not reached a terminal
	// state; the shutdown coordinator drains on it.
	inProgress atomic.Int64
	activeJobs atomic.Int64

	// idle receives a token whenever inProgress hits zero.
	idle chan struct{}

	stopOnce sync.Once
	drainErr error
}

// New creates a pool with opts.Workers goroutines and a queue of
// opts.MaxQueue jobs, both defaulted by FillDefaults when zero.
func New(opts Options) *Pool {
	opts.FillDefaults()
	p := &Pool{
		queue: NewJobQueue(opts.MaxQueue),
		opts:  opts,
		sink:  opts.Sink,
		ctx:   opts.Ctx,
		idle:  make(chan struct{}, 1),
	}
	p.running.Store(true)
	for i := 0; i < opts.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues a job, blocking while the queue is full. The
// submitted counter and active-jobs gauge move only for accepted
// submissions. Returns ErrPoolClosed once Shutdown has finished its
// drain wait and closed the queue; submissions made while Shutdown is
// still draining are accepted.
func (p *Pool) Submit(meta *JobMetadata, task Task) error {
	if task == nil {
		return ErrNilTask
	}
	return p.submit(&Job{Meta: meta, Run: task})
}

// SubmitWithResult enqueues a job whose task produces a value and
// returns a Future the worker completes exactly once. Retry is forced
// off: a retried job could complete the future a second time.
func SubmitWithResult[R any](p *Pool, meta *JobMetadata, task func(ctx context.Context) (R, error)) (*Future[R], error) {
	if task == nil {
		return nil, ErrNilTask
	}
	if meta == nil {
		meta = &JobMetadata{}
	}
	meta.AllowRetry = false
	fut := newFuture[R]()
	j := &Job{Meta: meta}
	j.fail = func(err error) {
		var zero R
		fut.complete(zero, err)
	}
	j.Run = func(ctx context.Context) error {
		v, err := task(ctx)
		if err != nil {
			return err
		}
		fut.complete(v, nil)
		return nil
	}
	if err := p.submit(j); err != nil {
		return nil, err
	}
	return fut, nil
}

func (p *Pool) submit(j *Job) error {
	if !p.running.Load() {
		return ErrPoolClosed
	}
	if j.Meta == nil {
		j.Meta = &JobMetadata{}
	}
	meta := j.Meta

	pol := p.opts.DefaultRetry
	if meta.AllowRetry && meta.MaxRetries > 0 && pol.Initial > 0 {
		bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())
		j.nextDelay = bo.Next
	}

	meta.SubmittedAt = time.Now()

	// Counted before the push so the shutdown coordinator sees
	// producers blocked on a full queue; rolled back on refusal.
	p.inProgress.Add(1)
	p.activeJobs.Add(1)
	if !p.queue.Push(j) {
		p.activeJobs.Add(-1)
		p.noteDone()
		return ErrPoolClosed
	}

	p.sink.Inc(MetricJobsSubmitted)
	p.sink.Set(MetricActiveJobs, float64(p.activeJobs.Load()))
	lg.FromContext(p.ctx).Info("job submitted",
		lg.String("job", meta.Name),
		lg.Any("id", meta.ID),
		lg.Int("priority", meta.Priority))
	return nil
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		j, ok := p.queue.Pop()
		if !ok {
			return
		}
		p.runJob(j)
	}
}

func (p *Pool) runJob(j *Job) {
	meta := j.Meta
	logger := lg.FromContext(p.ctx).With(
		lg.String("job", meta.Name),
		lg.Any("id", meta.ID))

	if meta.Cancelled() {
		logger.Warn("job cancelled before start")
		p.failJob(j, ErrJobCancelled)
		return
	}

	start := time.Now()
	var err error
	timedOut := false
	if meta.Timeout > 0 {
		timedOut, err = p.runGuarded(j)
	} else {
		execCtx, cancel := context.WithCancel(p.ctx)
		err = runTask(execCtx, j)
		cancel()
	}

	switch {
	case timedOut:
		logger.Error("job timed out", lg.String("timeout", meta.Timeout.String()))
		p.failJob(j, ErrJobTimeout)
	case err != nil && p.retryEligible(meta):
		meta.CurrentRetry++
		p.requeue(j, err)
	case err != nil:
		logger.Error("job failed",
			lg.Int("attempts", int(meta.CurrentRetry)+1),
			lg.Any("error", err))
		p.failJob(j, err)
	default:
		p.sink.Inc(MetricJobsCompleted)
		p.sink.Observe(MetricJobLatency, time.Since(meta.SubmittedAt).Seconds())
		logger.Info("job completed", lg.String("took", time.Since(start).String()))
		p.finish(j)
	}
}

// runGuarded executes the task on an inner goroutine and waits up to
// the job's timeout. On expiry the job context is cancelled, the
// cancel flag is set, and the goroutine is abandoned: it exits when
// the task observes cancellation or returns, and by then the job's
// outcome is already recorded, so the write-once future drops whatever
// the orphan produces.
func (p *Pool) runGuarded(j *Job) (bool, error) {
	execCtx, cancel := context.WithCancel(p.ctx)
	done := make(chan error, 1)
	go func() {
		done <- runTask(execCtx, j)
	}()
	timer := time.NewTimer(j.Meta.Timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		cancel()
		return false, err
	case <-timer.C:
		j.Meta.Cancel()
		cancel()
		return true, nil
	}
}

func runTask(ctx context.Context, j *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return j.Run(ctx)
}

func (p *Pool) retryEligible(meta *JobMetadata) bool {
	return meta.AllowRetry && !meta.Cancelled() && meta.CurrentRetry < meta.MaxRetries
}

// requeue re-enqueues a failed job at its original priority after the
// backoff delay. The push happens off the worker: a worker blocked on
// a full queue while every other worker did the same would deadlock
// the pool.
func (p *Pool) requeue(j *Job, cause error) {
	meta := j.Meta
	delay := time.Duration(0)
	if j.nextDelay != nil {
		delay = j.nextDelay()
	}
	lg.FromContext(p.ctx).Warn("job attempt failed; retrying",
		lg.String("job", meta.Name),
		lg.Int("retry", int(meta.CurrentRetry)),
		lg.String("delay", delay.String()),
		lg.Any("error", cause))

	repush := func() {
		if !p.queue.Push(j) {
			lg.FromContext(p.ctx).Error("retry dropped; queue closed",
				lg.String("job", meta.Name))
			p.failJob(j, cause)
		}
	}
	if delay > 0 {
		time.AfterFunc(delay, repush)
		return
	}
	go repush()
}

func (p *Pool) failJob(j *Job, cause error) {
	p.sink.Inc(MetricJobsFailed)
	if j.fail != nil {
		j.fail(cause)
	}
	p.finish(j)
}

// finish records the one terminal outcome of an accepted job.
func (p *Pool) finish(j *Job) {
	p.activeJobs.Add(-1)
	p.sink.Set(MetricActiveJobs, float64(p.activeJobs.Load()))
	p.noteDone()
}

func (p *Pool) noteDone() {
	if p.inProgress.Add(-1) == 0 {
		select {
		case p.idle <- struct{}{}:
		default:
		}
	}
}

// Shutdown drains in-flight work and joins the workers.
//
// It first waits, up to deadline, for every accepted job to reach a
// terminal state. If the deadline expires it logs a warning and
// proceeds anyway. Either way the queue is then closed, which unblocks
// parked workers, and the workers are joined. Jobs still queued when
// the deadline trips may or may not run; a running job finishes unless
// its own timeout fires.
//
// Shutdown is idempotent: later calls wait for the first to complete
// and return its drain status. The return value is ErrDrainTimeout
// when the drain was forced, nil when it was clean.
func (p *Pool) Shutdown(deadline time.Duration) error {
	p.stopOnce.Do(func() {
		logger := lg.FromContext(p.ctx)
		logger.Info("shutdown started",
			lg.Int("in_progress", int(p.inProgress.Load())))

		timer := time.NewTimer(deadline)
		defer timer.Stop()
	drain:
		for p.inProgress.Load() > 0 {
			select {
			case <-p.idle:
			case <-timer.C:
				logger.Warn("shutdown drain timeout reached; forcing shutdown",
					lg.Int("in_progress", int(p.inProgress.Load())))
				p.drainErr = ErrDrainTimeout
				break drain
			}
		}

		p.running.Store(false)
		p.queue.Shutdown()
		p.wg.Wait()
		logger.Info("shutdown complete")
	})
	return p.drainErr
}

// Stop shuts the pool down with the default drain deadline.
func (p *Pool) Stop() { _ = p.Shutdown(defaultDrainDeadline) }

// ActiveJobs returns the number of accepted jobs that have not reached
// a terminal outcome. Intended for cold-path observation.
func (p *Pool) ActiveJobs() int64 { return p.activeJobs.Load() }

// QueueLen returns the number of jobs waiting in the queue.
func (p *Pool) QueueLen() int { return p.queue.Len() }
