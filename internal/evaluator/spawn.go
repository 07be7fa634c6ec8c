package evaluator

import (
	"context"
	"errors"
	"log/slog"
	"murlang/internal/ast"
	"murlang/internal/object"
	"murlang/internal/runtime"
	"murlang/internal/token"
)

// evalSpawnStatement starts the body on its own goroutine in a child scope
// of the current one and binds the label to the unit's handle.
func (e *Evaluator) evalSpawnStatement(node *ast.SpawnStatement) object.Object {
	label := node.Label.Value
	env := object.NewEnclosedEnvironment(e.CurrentEnv())

	unit, err := e.rt.Spawn(e.ctx, label, func(slot *runtime.Slot) (object.Object, error) {
		child := e.fork(env, slot)
		child.fnDepth = 1

		var value object.Object = object.UNIT
		var failure error
		switch result := child.evalBlockIn(node.Body, env).(type) {
		case *object.ReturnValue:
			value = result.Value
		case *object.RuntimeError:
			failure = result
		}
		e.notify(label, "spawn", value, failure)
		if failure != nil {
			return nil, failure
		}
		return value, nil
	})
	if err != nil {
		if errors.Is(err, runtime.ErrLabelInUse) {
			return newError(object.SpawnLabelInUse, node.Label.Pos(), "'%s' is still running", label)
		}
		return toRuntimeError(err, node.Pos())
	}

	e.CurrentEnv().Define(label, &object.ThreadHandle{Label: label, Outcome: unit.Outcome})
	return object.UNIT
}

// evalWaitStatement blocks until every listed unit is terminal, then binds
// each label to its outcome. The first failed unit, in listed order, is
// raised instead.
func (e *Evaluator) evalWaitStatement(node *ast.WaitStatement) object.Object {
	units := make([]*runtime.Unit, 0, len(node.Labels))
	for _, l := range node.Labels {
		unit, ok := e.rt.Units.Lookup(l.Value)
		if !ok {
			return newError(object.UnknownSpawnLabel, l.Pos(), "'%s'", l.Value)
		}
		units = append(units, unit)
	}

	for _, unit := range units {
		slog.Debug("waiting for unit",
			slog.String("label", unit.Label),
			slog.String("state", unit.State().String()))
		if err := e.block(unit.Outcome.Done()); err != nil {
			return toRuntimeError(err, node.Pos())
		}
	}

	for _, unit := range units {
		if _, err := unit.Outcome.Await(); err != nil {
			return toRuntimeError(err, node.Pos())
		}
	}
	for i, unit := range units {
		value, _ := unit.Outcome.Await()
		e.CurrentEnv().Define(node.Labels[i].Value, value)
	}
	return object.UNIT
}

// block parks the evaluator until done is closed, giving its worker slot
// back meanwhile.
func (e *Evaluator) block(done <-chan struct{}) error {
	var closed bool
	err := e.slot.Blocking(e.ctx, func() {
		select {
		case <-done:
			closed = true
		case <-e.ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	if !closed {
		return e.ctx.Err()
	}
	return nil
}

func (e *Evaluator) evalAsyncCall(node *ast.AsyncCall) object.Object {
	fn, args, errObj := e.evalCallArguments(node.Call)
	if errObj != nil {
		return errObj
	}
	return e.scheduleCall(node.Call, fn, args)
}

// scheduleCall queues the call on the cooperative scheduler and returns a
// pending future for it.
func (e *Evaluator) scheduleCall(call *ast.CallExpression, fn object.Object, args []object.Object) object.Object {
	name := call.Function.Value
	env := e.CurrentEnv()

	result := e.rt.Schedule(name, func(slot *runtime.Slot) (object.Object, error) {
		task := e.fork(env, slot)
		value := task.applyFunction(fn, args, call)
		if rtErr, ok := value.(*object.RuntimeError); ok {
			e.notify(name, "async", nil, rtErr)
			return nil, rtErr
		}
		e.notify(name, "async", value, nil)
		return value, nil
	})
	return &object.Future{Name: name, Result: result}
}

func (e *Evaluator) evalAwaitExpression(node *ast.AwaitExpression) object.Object {
	val := e.Eval(node.Value)
	if isError(val) {
		return val
	}
	f, ok := val.(*object.Future)
	if !ok {
		return val
	}

	slog.Debug("awaiting future",
		slog.String("name", f.Name),
		slog.String("status", f.Result.Status().String()))

	result, err := e.rt.Tasks.RunUntil(e.ctx, f.Result, e.slot)
	if err != nil {
		return toRuntimeError(err, node.Pos())
	}
	return result
}

func (e *Evaluator) notify(label, kind string, value object.Object, err error) {
	if e.observer != nil {
		e.observer.UnitSettled(label, kind, value, err)
	}
}

// toRuntimeError converts a failure crossing a unit or task boundary into
// an error for the receiving context. Runtime errors are copied so that
// every waiter can extend its own stack trace.
func toRuntimeError(err error, pos token.Position) *object.RuntimeError {
	var rtErr *object.RuntimeError
	if errors.As(err, &rtErr) {
		clone := *rtErr
		clone.StackTrace = append([]object.StackFrame(nil), rtErr.StackTrace...)
		return &clone
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(object.Cancelled, pos, "%v", err)
	}
	if errors.Is(err, runtime.ErrSchedulerClosed) {
		return newError(object.Cancelled, pos, "the async task never ran: %v", err)
	}
	return newError(object.Cancelled, pos, "%v", err)
}
