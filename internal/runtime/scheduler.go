package runtime

import (
	"context"
	"errors"
	"log/slog"
	"murlang/internal/object"
	"murlang/internal/util/future"
	"sync"

	"github.com/edwingeng/deque"
	"github.com/tevino/abool/v2"
)

var ErrSchedulerClosed = errors.New("scheduler is closed")

// TaskFunc is the body of an async call. It runs on whichever goroutine
// drives the scheduler and borrows that goroutine's slot.
type TaskFunc func(slot *Slot) (object.Object, error)

type Task struct {
	Name   string
	ID     int64
	Result *future.Future[object.Object]

	run     TaskFunc
	started *abool.AtomicBool
}

// Scheduler is a FIFO queue of async tasks. Tasks only run when some
// goroutine awaits a future or drains the queue.
type Scheduler struct {
	mu     sync.Mutex
	queue  deque.Deque
	closed *abool.AtomicBool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		queue:  deque.NewDeque(),
		closed: abool.New(),
	}
}

// Schedule enqueues run and returns its pending result.
func (s *Scheduler) Schedule(name string, id int64, run TaskFunc) *future.Future[object.Object] {
	result := future.NewPending[object.Object]()
	if s.closed.IsSet() {
		result.Fail(ErrSchedulerClosed)
		return result
	}

	s.mu.Lock()
	s.queue.PushBack(&Task{
		Name:    name,
		ID:      id,
		Result:  result,
		run:     run,
		started: abool.New(),
	})
	s.mu.Unlock()

	slog.Debug("task scheduled",
		slog.String("name", name),
		slog.Int64("id", id))
	return result
}

func (s *Scheduler) next() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Empty() {
		return nil
	}
	return s.queue.PopFront().(*Task)
}

// Pending is the number of queued tasks not yet started.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// RunOne runs the task at the head of the queue. It reports false when the
// queue is empty.
func (s *Scheduler) RunOne(slot *Slot) bool {
	t := s.next()
	if t == nil {
		return false
	}
	if !t.started.SetToIf(false, true) {
		return true
	}

	slog.Debug("task running",
		slog.String("name", t.Name),
		slog.Int64("id", t.ID))

	v, err := t.run(slot)
	if err != nil {
		t.Result.Fail(err)
	} else {
		t.Result.Resolve(v)
	}
	return true
}

// RunUntil drives queued tasks on the calling goroutine until f settles.
// When nothing is queued but f is still pending, f is being computed
// elsewhere and the caller blocks on it with its slot released.
func (s *Scheduler) RunUntil(ctx context.Context, f *future.Future[object.Object], slot *Slot) (object.Object, error) {
	for f.Status() == future.Pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.RunOne(slot) {
			continue
		}
		err := slot.Blocking(ctx, func() {
			select {
			case <-f.Done():
			case <-ctx.Done():
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return f.Await()
}

// Drain runs queued tasks until the queue is empty.
func (s *Scheduler) Drain(ctx context.Context, slot *Slot) error {
	for s.RunOne(slot) {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close stops accepting tasks and fails any still queued.
func (s *Scheduler) Close() {
	if !s.closed.SetToIf(false, true) {
		return
	}
	for {
		t := s.next()
		if t == nil {
			return
		}
		t.Result.Fail(ErrSchedulerClosed)
	}
}
