package future

import (
	"context"
	"sync"
)

// Status is the lifecycle state of a Future.
type Status int

const (
	Pending Status = iota
	Resolved
	Failed
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	}
	return "pending"
}

type result[T any] struct {
	v   T
	err error
}

// Future is a single-shot result that completes exactly once.
type Future[T any] struct {
	doneChannel chan struct{}
	res         result[T]
	once        sync.Once
}

// NewPending creates a Future that is completed later by Resolve or Fail.
func NewPending[T any]() *Future[T] {
	return &Future[T]{doneChannel: make(chan struct{})}
}

// New runs fn in a goroutine and completes the Future when fn returns.
func New[T any](fn func() (T, error)) *Future[T] {
	f := NewPending[T]()
	go func() {
		v, err := fn()
		f.complete(v, err)
	}()
	return f
}

// FromValue creates an already-completed Future with a value.
func FromValue[T any](v T) *Future[T] {
	f := NewPending[T]()
	f.complete(v, nil)
	return f
}

// FromError creates an already-completed Future with an error.
func FromError[T any](err error) *Future[T] {
	f := NewPending[T]()
	var zero T
	f.complete(zero, err)
	return f
}

// Resolve completes the Future with v. It reports false if the Future had
// already completed.
func (f *Future[T]) Resolve(v T) bool {
	return f.complete(v, nil)
}

// Fail completes the Future with err. It reports false if the Future had
// already completed.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.complete(zero, err)
}

// Await blocks until completion and returns the result.
func (f *Future[T]) Await() (T, error) {
	<-f.doneChannel
	return f.res.v, f.res.err
}

// AwaitContext blocks until completion or until ctx is done, in which case
// ctx.Err() is returned and the Future is left untouched.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.doneChannel:
		return f.res.v, f.res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed when the Future completes.
func (f *Future[T]) Done() <-chan struct{} { return f.doneChannel }

// Status reports the current state without blocking.
func (f *Future[T]) Status() Status {
	select {
	case <-f.doneChannel:
		if f.res.err != nil {
			return Failed
		}
		return Resolved
	default:
		return Pending
	}
}

// complete sets the result exactly once and closes doneChannel.
func (f *Future[T]) complete(v T, err error) bool {
	completed := false
	f.once.Do(func() {
		f.res = result[T]{v: v, err: err}
		close(f.doneChannel)
		completed = true
	})
	return completed
}
