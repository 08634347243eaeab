// Package parallel runs case generators concurrently on a bounded set of
// goroutines.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when work is handed to a pool after Close.
var ErrClosed = errors.New("parallel: pool closed")

// Task is one unit of work. It receives the context passed to ExecuteAll.
type Task func(ctx context.Context) error

// WorkerPool is a fixed set of goroutines with per-worker queues.
//
// Tasks are dealt round-robin onto the queues. A worker whose own queue is
// empty steals from the others, which keeps every worker busy when some
// generators are much slower than the rest (full-range f32 tables next to
// sparse abstract ones).
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool

	executed atomic.Uint64
	stolen   atomic.Uint64
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			p.run(fn)
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			p.stolen.Add(1)
			p.run(fn)
			continue
		}

		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			p.run(fn)
		}
	}
}

func (p *WorkerPool) run(fn func()) {
	if fn == nil {
		return
	}
	fn()
	p.executed.Add(1)
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case fn := <-queue:
			p.run(fn)
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case fn := <-p.workQueues[(self+i)%p.workers]:
			return fn
		default:
		}
	}
	return nil
}

// ExecuteAll runs every task and waits for all of them. Task errors are
// combined with errors.Join, each wrapped with the index of its task.
//
// Tasks that have not started when ctx is done are skipped and report
// ctx.Err(); running tasks are expected to watch ctx themselves.
func (p *WorkerPool) ExecuteAll(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if !p.running.Load() {
		return ErrClosed
	}

	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))

	for i, task := range tasks {
		wrapped := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			if err := task(ctx); err != nil {
				errs[i] = fmt.Errorf("task %d: %w", i, err)
			}
		}

		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			errs[i] = ErrClosed
			wg.Done()
		}
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Close stops accepting work, finishes what is queued and stops the
// workers. Close is safe to call more than once.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }

// Stats is a snapshot of pool activity.
type Stats struct {
	Workers  int
	Queued   int
	Executed uint64
	Stolen   uint64
}

// Stats returns current counters. Queued is approximate.
func (p *WorkerPool) Stats() Stats {
	queued := 0
	for _, q := range p.workQueues {
		queued += len(q)
	}
	return Stats{
		Workers:  p.workers,
		Queued:   queued,
		Executed: p.executed.Load(),
		Stolen:   p.stolen.Load(),
	}
}
