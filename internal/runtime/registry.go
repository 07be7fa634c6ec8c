package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"murlang/internal/object"
	"murlang/internal/token"
	"murlang/internal/util/future"
	"sync"

	"github.com/tevino/abool/v2"
)

var (
	ErrLabelInUse   = errors.New("spawn label is still running")
	ErrUnknownLabel = errors.New("no unit was spawned under this label")
)

// State is where a spawned unit is in its lifecycle.
type State int

const (
	Spawned State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "spawned"
}

// Unit is one mrglspawn body evaluating on its own goroutine.
type Unit struct {
	Label   string
	ID      int64
	Outcome *future.Future[object.Object]

	started *abool.AtomicBool
}

func (u *Unit) State() State {
	switch u.Outcome.Status() {
	case future.Resolved:
		return Completed
	case future.Failed:
		return Failed
	}
	if u.started.IsSet() {
		return Running
	}
	return Spawned
}

func (u *Unit) Terminal() bool {
	return u.Outcome.Status() != future.Pending
}

// Registry tracks every unit spawned during one execution, keyed by label.
type Registry struct {
	pool *WorkerPool

	mu     sync.Mutex
	labels map[string]*Unit
	units  []*Unit
}

func NewRegistry(pool *WorkerPool) *Registry {
	return &Registry{
		pool:   pool,
		labels: make(map[string]*Unit),
	}
}

// Spawn registers a unit under label and starts body on a new goroutine
// once a worker slot is free. It fails with ErrLabelInUse while an earlier
// unit with the same label has not finished.
func (r *Registry) Spawn(ctx context.Context, label string, id int64, body func(slot *Slot) (object.Object, error)) (*Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.labels[label]; ok && !prev.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrLabelInUse, label)
	}

	unit := &Unit{
		Label:   label,
		ID:      id,
		started: abool.New(),
	}
	unit.Outcome = future.New(func() (result object.Object, err error) {
		slot, err := r.pool.acquireSlot(ctx)
		if err != nil {
			return nil, err
		}
		defer slot.release()
		defer func() {
			if p := recover(); p != nil {
				slog.Error("unit panicked",
					slog.String("label", label),
					slog.Any("panic", p))
				result, err = nil, object.NewRuntimeError(object.InternalFault, token.Position{}, "unit %s panicked: %v", label, p)
			}
		}()

		unit.started.Set()
		slog.Debug("unit running",
			slog.String("label", label),
			slog.Int64("id", id))
		return body(slot)
	})

	r.labels[label] = unit
	r.units = append(r.units, unit)

	slog.Debug("unit spawned",
		slog.String("label", label),
		slog.Int64("id", id))
	return unit, nil
}

// Lookup returns the most recent unit spawned under label.
func (r *Registry) Lookup(label string) (*Unit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.labels[label]
	return u, ok
}

// Outstanding counts units that have not reached a terminal state.
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.units {
		if !u.Terminal() {
			n++
		}
	}
	return n
}

// WaitAll blocks until every unit spawned so far, including units spawned
// while waiting, is terminal. Unit failures are not reported here.
func (r *Registry) WaitAll(ctx context.Context, slot *Slot) error {
	seen := 0
	for {
		r.mu.Lock()
		pending := make([]*Unit, len(r.units)-seen)
		copy(pending, r.units[seen:])
		r.mu.Unlock()

		if len(pending) == 0 {
			return nil
		}
		seen += len(pending)

		for _, u := range pending {
			var cancelled bool
			err := slot.Blocking(ctx, func() {
				select {
				case <-u.Outcome.Done():
				case <-ctx.Done():
					cancelled = true
				}
			})
			if err != nil {
				return err
			}
			if cancelled {
				return ctx.Err()
			}
		}
	}
}
