package runtime

import (
	"context"
	"log/slog"
	"math/rand"
	"murlang/internal/object"
	"murlang/internal/util"
	"murlang/internal/util/future"
	goruntime "runtime"
	"sync/atomic"
)

// Runtime holds the concurrency machinery shared by every evaluator of a
// single execution.
type Runtime struct {
	Config  util.Configuration
	Workers *WorkerPool
	Units   *Registry
	Tasks   *Scheduler
	nextID  atomic.Int64
}

func NewRuntime(config util.Configuration) *Runtime {
	workers := config.Workers
	if workers <= 0 {
		workers = goruntime.NumCPU()
	}
	pool := NewWorkerPool(workers)

	slog.Debug("runtime created",
		slog.Int("workers", pool.Size()))

	return &Runtime{
		Config:  config,
		Workers: pool,
		Units:   NewRegistry(pool),
		Tasks:   NewScheduler(),
	}
}

func (r *Runtime) NextHandleID() int64 {
	return r.nextID.Add(1)<<16 | int64(rand.Intn(0xFFFF))
}

func (r *Runtime) Spawn(ctx context.Context, label string, body func(slot *Slot) (object.Object, error)) (*Unit, error) {
	return r.Units.Spawn(ctx, label, r.NextHandleID(), body)
}

func (r *Runtime) Schedule(name string, run TaskFunc) *future.Future[object.Object] {
	return r.Tasks.Schedule(name, r.NextHandleID(), run)
}

// Settle runs at the end of the top-level program. It alternates between
// draining async tasks and waiting for spawned units until neither has
// work left, then closes the scheduler.
func (r *Runtime) Settle(ctx context.Context, slot *Slot) error {
	defer r.Tasks.Close()
	for {
		if err := r.Tasks.Drain(ctx, slot); err != nil {
			return err
		}
		if err := r.Units.WaitAll(ctx, slot); err != nil {
			return err
		}
		if r.Tasks.Pending() == 0 && r.Units.Outstanding() == 0 {
			return nil
		}
	}
}
