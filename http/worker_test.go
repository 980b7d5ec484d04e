package http

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsEveryTask(t *testing.T) {
	wp := NewWorkerPool(4)
	wp.Start()

	var (
		wg      sync.WaitGroup
		ran     atomic.Int64
		running atomic.Int64
		peak    atomic.Int64
	)

	const tasks = 100
	wg.Add(tasks)
	for range tasks {
		err := wp.Submit(func() {
			defer wg.Done()

			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			ran.Add(1)
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	wg.Wait()

	if ran.Load() != tasks {
		t.Errorf("expected %d tasks, ran %d", tasks, ran.Load())
	}
	if peak.Load() > 4 {
		t.Errorf("more than 4 tasks ran concurrently: %d", peak.Load())
	}

	if err := wp.Close(context.Background()); err != nil {
		t.Error(err)
	}
}

func TestWorkerPoolSubmitNeverBlocks(t *testing.T) {
	wp := NewWorkerPool(1)
	wp.Start()

	release := make(chan struct{})
	wp.Submit(func() { <-release })

	done := make(chan struct{})
	go func() {
		for range 50 {
			wp.Submit(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("submit blocked on a busy pool")
	}

	if wp.Backlog() == 0 {
		t.Error("expected queued tasks while the worker is busy")
	}

	close(release)
	if err := wp.Close(context.Background()); err != nil {
		t.Error(err)
	}
	if wp.Backlog() != 0 {
		t.Errorf("backlog not drained: %d", wp.Backlog())
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	wp := NewWorkerPool(2)
	wp.Start()

	if err := wp.Close(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := wp.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}

func TestWorkerPoolCloseTimeout(t *testing.T) {
	wp := NewWorkerPool(1)
	wp.Start()

	release := make(chan struct{})
	defer close(release)
	wp.Submit(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := wp.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestWorkerPoolDefaultSize(t *testing.T) {
	if NewWorkerPool(0).Size() != DefaultWorkers {
		t.Error("expected default worker count")
	}
}
