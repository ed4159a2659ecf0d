// Package worker runs background side effects, such as last-login bookkeeping,
// off the request path.
package worker

import (
	"log"
	"sync"
)

// Task represents a unit of work executed by the pool.
type Task func()

// Pool defines a simple worker pool.
type Pool interface {
	// Submit queues t and reports whether it was accepted. It never blocks:
	// a full queue or a stopped pool drops the task.
	Submit(Task) bool
	Stop()
}

// NewPool creates a pool with n workers and a queue of n*queueFactor tasks.
// n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, n*queueFactor)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.run()
	}
	return p
}

const queueFactor = 64

type pool struct {
	mu      sync.RWMutex
	stopped bool
	jobs    chan Task
	wg      sync.WaitGroup
}

func (p *pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job != nil {
			runSafely(job)
		}
	}
}

func runSafely(t Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: task panicked: %v", r)
		}
	}()
	t()
}

func (p *pool) Submit(t Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	select {
	case p.jobs <- t:
		return true
	default:
		return false
	}
}

// Stop waits for queued tasks to finish.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Inline runs every task synchronously in the caller's goroutine.
type Inline struct{}

func (Inline) Submit(t Task) bool {
	if t != nil {
		runSafely(t)
	}
	return true
}

func (Inline) Stop() {}
