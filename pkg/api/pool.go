package api

import (
	"context"
	"sync/atomic"
)

// WorkerPool limits how many record operations (saves and loads) reach the backend at
// once.
type WorkerPool struct {
	sem    chan struct{}
	queued int64 // Number of waiting operations
	active int64 // Number of running operations
	total  int64 // Operations finished
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxWorkers int // Max concurrent record operations (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxWorkers: 4,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultPoolConfig().MaxWorkers
	}
	return &WorkerPool{
		sem: make(chan struct{}, config.MaxWorkers),
	}
}

// Acquire waits for a slot. It returns an error if the context is cancelled while waiting.
func (p *WorkerPool) Acquire(ctx context.Context) error {
	atomic.AddInt64(&p.queued, 1)
	defer atomic.AddInt64(&p.queued, -1)

	select {
	case p.sem <- struct{}{}:
		atomic.AddInt64(&p.active, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot without blocking, reporting false when the pool is full.
func (p *WorkerPool) TryAcquire() bool {
	select {
	case p.sem <- struct{}{}:
		atomic.AddInt64(&p.active, 1)
		return true
	default:
		return false
	}
}

// Release frees a slot.
func (p *WorkerPool) Release() {
	atomic.AddInt64(&p.active, -1)
	atomic.AddInt64(&p.total, 1)
	<-p.sem
}

// Do runs f while holding a slot.
func (p *WorkerPool) Do(ctx context.Context, f func(ctx context.Context) error) error {
	if err := p.Acquire(ctx); err != nil {
		return err
	}
	defer p.Release()
	return f(ctx)
}

// PoolStats are the current pool statistics.
type PoolStats struct {
	Active int64 `json:"active"`
	Queued int64 `json:"queued"`
	Total  int64 `json:"total"`
	Max    int   `json:"max"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		Active: atomic.LoadInt64(&p.active),
		Queued: atomic.LoadInt64(&p.queued),
		Total:  atomic.LoadInt64(&p.total),
		Max:    cap(p.sem),
	}
}
