package object

import (
	"bytes"
	"murlang/internal/ast"
	"murlang/internal/util/future"
	"strconv"
	"strings"
	"sync"
)

const (
	UNIT_OBJ       = "UNIT"
	BOOLEAN_OBJ    = "BOOLEAN"
	NUMBER_OBJ     = "NUMBER"
	STRING_OBJ     = "TEXT"
	ARRAY_OBJ      = "ARRAY"
	STRUCT_DEF_OBJ = "STRUCT_DEF"
	STRUCT_OBJ     = "STRUCT"
	FUNCTION_OBJ   = "FUNCTION"
	BUILTIN_OBJ    = "BUILTIN"
	THREAD_OBJ     = "THREAD"
	FUTURE_OBJ     = "FUTURE"
	ERROR_OBJ      = "ERROR"

	RETURN_VALUE_OBJ = "RETURN_VALUE"
	BREAK_OBJ        = "BREAK"
	CONTINUE_OBJ     = "CONTINUE"
)

var (
	UNIT     = &Unit{}
	TRUE     = &Boolean{Value: true}
	FALSE    = &Boolean{Value: false}
	BREAK    = &BreakSignal{}
	CONTINUE = &ContinueSignal{}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "mrglyes"
	}
	return "mrglno"
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Unit struct{}

func (u *Unit) Type() ObjectType { return UNIT_OBJ }
func (u *Unit) Inspect() string  { return "unit" }

// Array is shared by reference between scopes and goroutines, so every
// access to Elements goes through its lock.
type Array struct {
	mu       sync.RWMutex
	Elements []Object
}

func NewArray(elements []Object) *Array {
	return &Array{Elements: elements}
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	return a.inspect(map[Object]bool{})
}

// inspect renders a, showing an array already being rendered further up as
// [...] so self-containing values terminate.
func (a *Array) inspect(seen map[Object]bool) string {
	if seen[a] {
		return "[...]"
	}
	seen[a] = true
	defer delete(seen, a)

	var out bytes.Buffer

	elements := []string{}
	for _, e := range a.Snapshot() {
		elements = append(elements, inspectNested(e, seen))
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")

	return out.String()
}

func (a *Array) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.Elements)
}

func (a *Array) Get(i int) (Object, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if i < 0 || i >= len(a.Elements) {
		return nil, false
	}
	return a.Elements[i], true
}

func (a *Array) Set(i int, v Object) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.Elements) {
		return false
	}
	a.Elements[i] = v
	return true
}

func (a *Array) Push(v Object) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Elements = append(a.Elements, v)
	return len(a.Elements)
}

func (a *Array) Pop() (Object, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.Elements) == 0 {
		return nil, false
	}
	last := a.Elements[len(a.Elements)-1]
	a.Elements = a.Elements[:len(a.Elements)-1]
	return last, true
}

// Snapshot returns a copy of the current elements.
func (a *Array) Snapshot() []Object {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Object, len(a.Elements))
	copy(out, a.Elements)
	return out
}

// Field types a struct definition may declare besides other struct names.
const (
	FieldNumber = "numblrr"
	FieldText   = "blbtxt"
	FieldBool   = "blbool"
	FieldArray  = "blbarr"
)

type StructField struct {
	Name     string
	TypeName string
}

// StructDef is the runtime form of a mrrgstruct definition.
type StructDef struct {
	Name       string
	Fields     []StructField
	FieldIndex map[string]int
}

func NewStructDef(name string, fields []StructField) *StructDef {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return &StructDef{Name: name, Fields: fields, FieldIndex: idx}
}

func (s *StructDef) Type() ObjectType { return STRUCT_DEF_OBJ }
func (s *StructDef) Inspect() string {
	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		parts = append(parts, f.Name+": "+f.TypeName)
	}
	return "mrrgstruct " + s.Name + " { " + strings.Join(parts, ", ") + " }"
}

func (s *StructDef) HasField(name string) bool {
	_, ok := s.FieldIndex[name]
	return ok
}

// Struct is an instance of a StructDef; its field set always equals the
// definition's field set.
type Struct struct {
	Def    *StructDef
	mu     sync.RWMutex
	fields map[string]Object
}

func NewStruct(def *StructDef, fields map[string]Object) *Struct {
	return &Struct{Def: def, fields: fields}
}

func (s *Struct) Type() ObjectType { return STRUCT_OBJ }
func (s *Struct) Inspect() string {
	return s.inspect(map[Object]bool{})
}

func (s *Struct) inspect(seen map[Object]bool) string {
	if seen[s] {
		return s.Def.Name + "{...}"
	}
	seen[s] = true
	defer delete(seen, s)

	var out bytes.Buffer
	out.WriteString(s.Def.Name)
	out.WriteString("{")
	parts := []string{}
	for _, field := range s.Def.Fields {
		val, ok := s.Get(field.Name)
		if !ok {
			continue
		}
		parts = append(parts, field.Name+": "+inspectNested(val, seen))
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}

func (s *Struct) Get(name string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.fields[name]
	return v, ok
}

// Set updates an existing field; it reports false for a field the
// definition does not declare.
func (s *Struct) Set(name string, v Object) bool {
	if !s.Def.HasField(name) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[name] = v
	return true
}

type Function struct {
	Name       string
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
	IsAsync    bool
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}

	if f.IsAsync {
		out.WriteString("mrglasync ")
	}
	out.WriteString("grrrfnrrg ")
	out.WriteString(f.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")

	return out.String()
}

type BuiltinFunction func(args ...Object) Object

type Builtin struct {
	Name  string
	Arity int // -1 accepts any count
	Fn    BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }

// ThreadHandle is bound to a spawn label until the unit is waited on.
type ThreadHandle struct {
	Label   string
	Outcome *future.Future[Object]
}

func (t *ThreadHandle) Type() ObjectType { return THREAD_OBJ }
func (t *ThreadHandle) Inspect() string {
	return "<thread " + t.Label + " " + t.Outcome.Status().String() + ">"
}

// Future is the value of an async call.
type Future struct {
	Name   string
	Result *future.Future[Object]
}

func (f *Future) Type() ObjectType { return FUTURE_OBJ }
func (f *Future) Inspect() string {
	return "<future " + f.Name + " " + f.Result.Status().String() + ">"
}

type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type BreakSignal struct{}

func (b *BreakSignal) Type() ObjectType { return BREAK_OBJ }
func (b *BreakSignal) Inspect() string  { return "blgrrstop" }

type ContinueSignal struct{}

func (c *ContinueSignal) Type() ObjectType { return CONTINUE_OBJ }
func (c *ContinueSignal) Inspect() string  { return "blgrrkeep" }

func NativeBool(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

// inspectNested renders values inside arrays and structs, quoting text so
// that ["1"] and [1] look different.
func inspectNested(o Object, seen map[Object]bool) string {
	switch o := o.(type) {
	case *String:
		return strconv.Quote(o.Value)
	case *Array:
		return o.inspect(seen)
	case *Struct:
		return o.inspect(seen)
	}
	return o.Inspect()
}

// Kind is the user-facing name of a value's kind; struct instances report
// their definition's name.
func Kind(o Object) string {
	switch o := o.(type) {
	case *Number:
		return "number"
	case *String:
		return "text"
	case *Boolean:
		return "boolean"
	case *Array:
		return "array"
	case *Struct:
		return o.Def.Name
	case *StructDef:
		return "struct"
	case *Function, *Builtin:
		return "function"
	case *ThreadHandle:
		return "thread"
	case *Future:
		return "future"
	case *Unit:
		return "unit"
	case *RuntimeError:
		return "error"
	}
	return strings.ToLower(string(o.Type()))
}

// Equal is structural value equality across all kinds. Functions, threads
// and futures compare by identity. Cyclic arrays and structs are equal when
// no difference is found before the cycle repeats.
func Equal(a, b Object) bool {
	return equal(a, b, map[[2]Object]bool{})
}

func equal(a, b Object, seen map[[2]Object]bool) bool {
	switch a.(type) {
	case *Array, *Struct:
		pair := [2]Object{a, b}
		if seen[pair] {
			return true
		}
		seen[pair] = true
	}

	switch a := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		return ok && a.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && a.Value == bv.Value
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && a.Value == bv.Value
	case *Unit:
		_, ok := b.(*Unit)
		return ok
	case *Array:
		bv, ok := b.(*Array)
		if !ok {
			return false
		}
		if a == bv {
			return true
		}
		ae, be := a.Snapshot(), bv.Snapshot()
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !equal(ae[i], be[i], seen) {
				return false
			}
		}
		return true
	case *Struct:
		bv, ok := b.(*Struct)
		if !ok || a.Def.Name != bv.Def.Name {
			return false
		}
		if a == bv {
			return true
		}
		for _, f := range a.Def.Fields {
			av, _ := a.Get(f.Name)
			bf, ok := bv.Get(f.Name)
			if !ok || !equal(av, bf, seen) {
				return false
			}
		}
		return true
	}
	return a == b
}
