package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"murlang/internal/ast"
	"murlang/internal/object"
	"murlang/internal/runtime"
	"murlang/internal/util"
	"os"
	"sync"
)

// ExitStatus is the process status a finished execution maps to.
type ExitStatus int

const (
	ExitOK           ExitStatus = 0
	ExitParseFailure ExitStatus = 65
	ExitRuntimeError ExitStatus = 70
)

// Observer is told about every spawned unit and async task once it reaches
// a terminal state. kind is "spawn" or "async". Implementations are called
// from many goroutines.
type Observer interface {
	UnitSettled(label string, kind string, value object.Object, err error)
}

type options struct {
	out      io.Writer
	config   util.Configuration
	observer Observer
}

type Option func(*options)

// WithWriter sends glglrr output to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

func WithConfig(cfg util.Configuration) Option {
	return func(o *options) { o.config = cfg }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// printer serialises output lines from concurrently running units.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintln(p.w, s); err != nil {
		slog.Warn("print failed", slog.Any("error", err))
	}
}

// Execute evaluates program to completion. Spawned units and queued async
// tasks are always settled before it returns, even when the top-level
// program failed. The returned error is always an *object.RuntimeError.
func Execute(ctx context.Context, program *ast.Program, opts ...Option) (ExitStatus, error) {
	e := newEvaluator(ctx, opts)

	result := e.Eval(program)
	settleErr := e.rt.Settle(ctx, nil)

	if rtErr, ok := result.(*object.RuntimeError); ok {
		slog.Debug("program failed",
			slog.String("kind", string(rtErr.Kind)),
			slog.String("message", rtErr.Message))
		return ExitRuntimeError, rtErr
	}
	if settleErr != nil {
		return ExitRuntimeError, toRuntimeError(settleErr, program.Pos())
	}
	return ExitOK, nil
}

// newEvaluator builds the top-level evaluator with a fresh runtime and an
// empty root scope.
func newEvaluator(ctx context.Context, opts []Option) *Evaluator {
	o := &options{out: os.Stdout, config: util.DefaultConfiguration()}
	for _, opt := range opts {
		opt(o)
	}

	e := &Evaluator{
		ctx:      ctx,
		rt:       runtime.NewRuntime(o.config),
		out:      &printer{w: o.out},
		observer: o.observer,
	}
	e.PushEnv(object.NewEnvironment())
	return e
}
