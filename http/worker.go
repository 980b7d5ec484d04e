package http

import (
	"context"
	"sync"
)

// WorkerPool runs submitted tasks on a fixed number of goroutines. The
// backlog is unbounded: Submit never blocks on busy workers.
type WorkerPool struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	started bool
	closed  bool

	wg sync.WaitGroup
}

func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = DefaultWorkers
	}

	wp := &WorkerPool{size: size}
	wp.cond = sync.NewCond(&wp.mu)
	return wp
}

func (wp *WorkerPool) Size() int {
	return wp.size
}

// Start launches the workers. Calling it again is a no-op.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started || wp.closed {
		return
	}
	wp.started = true

	wp.wg.Add(wp.size)
	for range wp.size {
		go wp.work()
	}
}

// Submit queues task for the next free worker.
func (wp *WorkerPool) Submit(task func()) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		return ErrPoolClosed
	}

	wp.queue = append(wp.queue, task)
	wp.cond.Signal()
	return nil
}

// Backlog reports how many tasks wait for a worker.
func (wp *WorkerPool) Backlog() int {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	return len(wp.queue)
}

// Close stops accepting tasks and waits for the workers to drain the
// backlog, or for ctx to expire.
func (wp *WorkerPool) Close(ctx context.Context) error {
	wp.mu.Lock()
	wp.closed = true
	started := wp.started
	if !started {
		wp.queue = nil
	}
	wp.cond.Broadcast()
	wp.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *WorkerPool) work() {
	defer wp.wg.Done()

	for {
		wp.mu.Lock()
		for len(wp.queue) == 0 && !wp.closed {
			wp.cond.Wait()
		}
		if len(wp.queue) == 0 {
			wp.mu.Unlock()
			return
		}

		task := wp.queue[0]
		wp.queue[0] = nil
		wp.queue = wp.queue[1:]
		wp.mu.Unlock()

		task()
	}
}
