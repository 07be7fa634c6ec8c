package object

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one lexical scope. Scopes are shared between the spawning
// goroutine and spawned units, so every read and write of Bindings holds mu.
type Environment struct {
	ID       uint64
	Bindings map[string]Object
	Outer    *Environment

	mu sync.RWMutex
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

// NewEnclosedEnvironment initializes an environment with a parent.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	slog.Debug("new env",
		slog.Uint64("id", env.ID),
		slog.Uint64("outer", outer.ID))
	return env
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:       nextEnvID(),
		Bindings: make(map[string]Object),
	}
}

func (e *Environment) Get(name string) (Object, bool) {
	e.mu.RLock()
	val, ok := e.Bindings[name]
	e.mu.RUnlock()

	if ok {
		return val, true
	}
	if e.Outer != nil {
		return e.Outer.Get(name)
	}
	return nil, false
}

// GetLocal looks name up in this scope only.
func (e *Environment) GetLocal(name string) (Object, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	val, ok := e.Bindings[name]
	return val, ok
}

// Define binds name in this scope, replacing any existing binding here.
func (e *Environment) Define(name string, val Object) Object {
	e.mu.Lock()
	e.Bindings[name] = val
	e.mu.Unlock()

	slog.Debug("binding value",
		slog.Any("type", val.Type()),
		slog.String("name", name),
		slog.Uint64("env", e.ID))
	return val
}

// Assign rebinds name in the nearest scope that already owns it.
func (e *Environment) Assign(name string, val Object) (Object, error) {
	e.mu.Lock()
	if _, exists := e.Bindings[name]; exists {
		e.Bindings[name] = val
		e.mu.Unlock()
		slog.Debug("assigning bound value",
			slog.Any("type", val.Type()),
			slog.String("name", name),
			slog.Uint64("env", e.ID))
		return val, nil
	}
	e.mu.Unlock()

	if e.Outer != nil {
		return e.Outer.Assign(name, val)
	}
	return nil, fmt.Errorf("failed to assign to '%s': not defined in any accessible scope", name)
}
