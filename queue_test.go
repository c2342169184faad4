package jobengine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	je "github.com/azargarov/jobengine"
)

func noopJob(name string, prio int) *je.Job {
	return &je.Job{
		Meta: &je.JobMetadata{Name: name, Priority: prio},
		Run:  func(context.Context) error { return nil },
	}
}

func TestQueuePriorityOrdering(t *testing.T) {
	q := je.NewJobQueue(10)

	q.Push(noopJob("low", 1))
	q.Push(noopJob("mid-first", 5))
	q.Push(noopJob("high", 9))
	q.Push(noopJob("mid-second", 5))

	want := []string{"high", "mid-first", "mid-second", "low"}
	for _, name := range want {
		j, ok := q.Pop()
		if !ok {
			t.Fatalf("pop returned closed; want job %q", name)
		}
		if j.Meta.Name != name {
			t.Fatalf("popped %q; want %q", j.Meta.Name, name)
		}
	}
}

func TestQueueCapacityNeverExceeded(t *testing.T) {
	const capacity = 2
	q := je.NewJobQueue(capacity)

	if !q.Push(noopJob("a", 0)) || !q.Push(noopJob("b", 0)) {
		t.Fatal("pushes within capacity refused")
	}

	pushed := make(chan struct{})
	go func() {
		q.Push(noopJob("c", 0))
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("push succeeded beyond capacity")
	case <-time.After(50 * time.Millisecond):
	}
	if got := q.Len(); got != capacity {
		t.Fatalf("len = %d; want %d", got, capacity)
	}

	if _, ok := q.TryPop(); !ok {
		t.Fatal("try_pop failed on non-empty queue")
	}
	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("blocked producer not released by pop")
	}
	if got := q.Len(); got != capacity {
		t.Fatalf("len after release = %d; want %d", got, capacity)
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := je.NewJobQueue(4)

	got := make(chan string, 1)
	go func() {
		j, ok := q.Pop()
		if ok {
			got <- j.Meta.Name
		}
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push(noopJob("late", 0))

	select {
	case name := <-got:
		if name != "late" {
			t.Fatalf("popped %q; want \"late\"", name)
		}
	case <-time.After(time.Second):
		t.Fatal("consumer not woken by push")
	}
}

func TestQueueShutdownSemantics(t *testing.T) {
	t.Run("PushAfterShutdownIsNoop", func(t *testing.T) {
		q := je.NewJobQueue(4)
		q.Shutdown()
		if q.Push(noopJob("x", 0)) {
			t.Error("push accepted after shutdown")
		}
		if got := q.Len(); got != 0 {
			t.Errorf("len = %d; want 0", got)
		}
	})

	t.Run("PopDrainsThenCloses", func(t *testing.T) {
		q := je.NewJobQueue(4)
		q.Push(noopJob("a", 0))
		q.Push(noopJob("b", 1))
		q.Shutdown()

		if j, ok := q.Pop(); !ok || j.Meta.Name != "b" {
			t.Fatal("expected queued job b after shutdown")
		}
		if j, ok := q.Pop(); !ok || j.Meta.Name != "a" {
			t.Fatal("expected queued job a after shutdown")
		}
		if _, ok := q.Pop(); ok {
			t.Fatal("expected closed sentinel once drained")
		}
	})

	t.Run("ShutdownWakesBlockedConsumer", func(t *testing.T) {
		q := je.NewJobQueue(4)
		closed := make(chan bool, 1)
		go func() {
			_, ok := q.Pop()
			closed <- !ok
		}()
		time.Sleep(20 * time.Millisecond)
		q.Shutdown()
		select {
		case sawClosed := <-closed:
			if !sawClosed {
				t.Error("blocked consumer got a job; want closed sentinel")
			}
		case <-time.After(time.Second):
			t.Error("blocked consumer not woken by shutdown")
		}
	})

	t.Run("ShutdownWakesBlockedProducer", func(t *testing.T) {
		q := je.NewJobQueue(1)
		q.Push(noopJob("fill", 0))
		refused := make(chan bool, 1)
		go func() {
			refused <- !q.Push(noopJob("blocked", 0))
		}()
		time.Sleep(20 * time.Millisecond)
		q.Shutdown()
		select {
		case wasRefused := <-refused:
			if !wasRefused {
				t.Error("blocked producer enqueued after shutdown")
			}
		case <-time.After(time.Second):
			t.Error("blocked producer not woken by shutdown")
		}
	})

	t.Run("ShutdownIsIdempotent", func(t *testing.T) {
		q := je.NewJobQueue(4)
		q.Shutdown()
		q.Shutdown()
		if !q.IsShutdown() {
			t.Error("queue not shut down")
		}
	})
}

func TestQueueTryPop(t *testing.T) {
	q := je.NewJobQueue(4)

	if _, ok := q.TryPop(); ok {
		t.Fatal("try_pop on empty queue returned a job")
	}
	q.Push(noopJob("a", 1))
	q.Push(noopJob("b", 7))
	if j, ok := q.TryPop(); !ok || j.Meta.Name != "b" {
		t.Fatal("try_pop did not return the highest-priority job")
	}
}

func TestQueueConcurrentProducersConsumers(t *testing.T) {
	const (
		producers = 4
		perProd   = 50
	)
	q := je.NewJobQueue(8)

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < perProd; n++ {
				q.Push(noopJob("j", n%3))
			}
		}()
	}

	var consumed sync.WaitGroup
	var mu sync.Mutex
	popped := 0
	for i := 0; i < 2; i++ {
		consumed.Add(1)
		go func() {
			defer consumed.Done()
			for {
				_, ok := q.Pop()
				if !ok {
					return
				}
				mu.Lock()
				popped++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	waitFor(t, 2*time.Second, func() bool { return q.Empty() })
	q.Shutdown()
	consumed.Wait()

	if popped != producers*perProd {
		t.Fatalf("popped %d jobs; want %d", popped, producers*perProd)
	}
}
