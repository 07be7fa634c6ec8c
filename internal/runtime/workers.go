package runtime

import (
	"context"
	"log/slog"

	"golang.org/x/sync/semaphore"
)

// WorkerPool bounds how many spawned units evaluate at the same time.
type WorkerPool struct {
	sem  *semaphore.Weighted
	size int
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 2 {
		size = 2
	}
	return &WorkerPool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

func (p *WorkerPool) Size() int { return p.size }

// Acquire blocks until a slot is free or ctx is done.
func (p *WorkerPool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

// TryAcquire takes a slot only if one is free right now.
func (p *WorkerPool) TryAcquire() bool {
	return p.sem.TryAcquire(1)
}

func (p *WorkerPool) Release() {
	p.sem.Release(1)
}

// Slot is the worker slot held by one spawned unit. The top-level program
// runs with a nil Slot, which holds nothing.
type Slot struct {
	pool *WorkerPool
	held bool
}

func (p *WorkerPool) acquireSlot(ctx context.Context) (*Slot, error) {
	if err := p.Acquire(ctx); err != nil {
		return nil, err
	}
	return &Slot{pool: p, held: true}, nil
}

func (s *Slot) release() {
	if s == nil || !s.held {
		return
	}
	s.held = false
	s.pool.Release()
}

// Blocking runs wait with the slot given back to the pool, so that units
// parked in wait or await never starve the units they are waiting for.
func (s *Slot) Blocking(ctx context.Context, wait func()) error {
	if s == nil || !s.held {
		wait()
		return nil
	}
	s.release()
	slog.Debug("worker slot released while blocked")
	wait()
	if err := s.pool.Acquire(ctx); err != nil {
		return err
	}
	s.held = true
	return nil
}
