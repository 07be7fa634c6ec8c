package evaluator

import (
	"context"
	"murlang/internal/ast"
	"murlang/internal/object"
	"murlang/internal/token"
)

// Session evaluates a sequence of programs against one root scope and one
// runtime, so bindings, functions and spawned units outlive each program.
type Session struct {
	e *Evaluator
}

func NewSession(ctx context.Context, opts ...Option) *Session {
	return &Session{e: newEvaluator(ctx, opts)}
}

// Eval runs program in the session scope and returns the value of its last
// statement. A failure leaves earlier bindings in place.
func (s *Session) Eval(program *ast.Program) (object.Object, error) {
	result := s.e.Eval(program)
	if rtErr, ok := result.(*object.RuntimeError); ok {
		return nil, rtErr
	}
	return result, nil
}

// Lookup reads a binding from the session's root scope.
func (s *Session) Lookup(name string) (object.Object, bool) {
	return s.e.CurrentEnv().Get(name)
}

// Close settles every outstanding unit and queued task. The session cannot
// schedule async calls afterwards.
func (s *Session) Close() error {
	if err := s.e.rt.Settle(s.e.ctx, nil); err != nil {
		return toRuntimeError(err, token.Position{})
	}
	return nil
}
