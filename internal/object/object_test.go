package object

import (
	"murlang/internal/token"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberInspect(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{3, "3"},
		{-2, "-2"},
		{3.5, "3.5"},
		{0.25, "0.25"},
		{1e21, "1000000000000000000000"},
	}

	for _, tt := range tests {
		n := &Number{Value: tt.value}
		if n.Inspect() != tt.expected {
			t.Errorf("Number(%v).Inspect() wrong. expected=%q, got=%q", tt.value, tt.expected, n.Inspect())
		}
	}
}

func TestInspectNestedQuotesText(t *testing.T) {
	arr := NewArray([]Object{&Number{Value: 1}, &String{Value: "1"}, TRUE})
	assert.Equal(t, `[1, "1", mrglyes]`, arr.Inspect())

	def := NewStructDef("Murloc", []StructField{{Name: "name", TypeName: FieldText}, {Name: "level", TypeName: FieldNumber}})
	s := NewStruct(def, map[string]Object{"name": &String{Value: "G"}, "level": &Number{Value: 3}})
	assert.Equal(t, `Murloc{name: "G", level: 3}`, s.Inspect())
}

func TestEqual(t *testing.T) {
	def := NewStructDef("P", []StructField{{Name: "x", TypeName: FieldNumber}})
	p1 := NewStruct(def, map[string]Object{"x": &Number{Value: 1}})
	p2 := NewStruct(def, map[string]Object{"x": &Number{Value: 1}})
	p3 := NewStruct(def, map[string]Object{"x": &Number{Value: 2}})

	tests := []struct {
		a, b     Object
		expected bool
	}{
		{&Number{Value: 1}, &Number{Value: 1}, true},
		{&Number{Value: 1}, &String{Value: "1"}, false},
		{&String{Value: "a"}, &String{Value: "a"}, true},
		{TRUE, &Boolean{Value: true}, true},
		{TRUE, FALSE, false},
		{UNIT, &Unit{}, true},
		{NewArray([]Object{&Number{Value: 1}}), NewArray([]Object{&Number{Value: 1}}), true},
		{NewArray([]Object{&Number{Value: 1}}), NewArray([]Object{}), false},
		{p1, p2, true},
		{p1, p3, false},
	}

	for i, tt := range tests {
		assert.Equal(t, tt.expected, Equal(tt.a, tt.b), "tests[%d] %s == %s", i, tt.a.Inspect(), tt.b.Inspect())
	}
}

func TestKind(t *testing.T) {
	def := NewStructDef("Murloc", nil)
	tests := []struct {
		value    Object
		expected string
	}{
		{&Number{Value: 1}, "number"},
		{&String{Value: ""}, "text"},
		{FALSE, "boolean"},
		{NewArray(nil), "array"},
		{NewStruct(def, map[string]Object{}), "Murloc"},
		{UNIT, "unit"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Kind(tt.value))
	}
}

func TestArrayOperations(t *testing.T) {
	arr := NewArray([]Object{&Number{Value: 1}})

	assert.Equal(t, 2, arr.Push(&Number{Value: 2}))
	assert.Equal(t, 2, arr.Len())

	_, ok := arr.Get(2)
	assert.False(t, ok, "index == length must be rejected")
	_, ok = arr.Get(-1)
	assert.False(t, ok, "negative index must be rejected")

	assert.True(t, arr.Set(0, &Number{Value: 9}))
	assert.False(t, arr.Set(5, &Number{Value: 9}))

	last, ok := arr.Pop()
	require.True(t, ok)
	assert.Equal(t, "2", last.Inspect())
	assert.Equal(t, "[9]", arr.Inspect())

	snap := arr.Snapshot()
	arr.Push(UNIT)
	assert.Len(t, snap, 1, "snapshot must not observe later pushes")
}

func TestStructSetRejectsUnknownField(t *testing.T) {
	def := NewStructDef("P", []StructField{{Name: "x", TypeName: FieldNumber}})
	s := NewStruct(def, map[string]Object{"x": &Number{Value: 1}})

	assert.True(t, s.Set("x", &Number{Value: 2}))
	assert.False(t, s.Set("y", &Number{Value: 2}))
	v, _ := s.Get("x")
	assert.Equal(t, "2", v.Inspect())
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Number{Value: 1})

	inner := NewEnclosedEnvironment(outer)
	inner.Define("x", &Number{Value: 2})

	v, ok := inner.Get("x")
	require.True(t, ok)
	assert.Equal(t, "2", v.Inspect())

	v, _ = outer.Get("x")
	assert.Equal(t, "1", v.Inspect())
}

func TestEnvironmentAssignUpdatesOwningScope(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Number{Value: 1})
	inner := NewEnclosedEnvironment(outer)

	_, err := inner.Assign("x", &Number{Value: 5})
	require.NoError(t, err)

	_, local := inner.GetLocal("x")
	assert.False(t, local, "assignment must not create a local binding")

	v, _ := outer.Get("x")
	assert.Equal(t, "5", v.Inspect())

	_, err = inner.Assign("missing", UNIT)
	assert.Error(t, err)
}

func TestEnvironmentConcurrentAccess(t *testing.T) {
	root := NewEnvironment()
	root.Define("shared", &Number{Value: 0})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child := NewEnclosedEnvironment(root)
			for j := 0; j < 100; j++ {
				child.Define("local", &Number{Value: float64(j)})
				_, _ = child.Assign("shared", &Number{Value: float64(i)})
				_, _ = child.Get("shared")
			}
		}(i)
	}
	wg.Wait()

	v, ok := root.Get("shared")
	require.True(t, ok)
	assert.Equal(t, NUMBER_OBJ, string(v.Type()))
}

func TestRuntimeErrorFormatting(t *testing.T) {
	err := NewRuntimeError(DivisionByZero, token.Position{Line: 3, Column: 7}, "cannot divide %s by zero", "10")
	err.WithFrame("split", token.Position{Line: 9, Column: 1})

	assert.Equal(t, "DivisionByZero at 3:7: You dare divide by the abyss?! Void screams back!: cannot divide 10 by zero", err.Error())
	assert.True(t, strings.Contains(err.Inspect(), "at [  9:  1] split"))

	caught := err.AsStruct()
	kind, _ := caught.Get("kind")
	assert.Equal(t, "DivisionByZero", kind.Inspect())
}

func TestInspectSelfContainingValues(t *testing.T) {
	arr := NewArray([]Object{&Number{Value: 1}})
	arr.Push(arr)
	assert.Equal(t, "[1, [...]]", arr.Inspect())

	def := NewStructDef("Node", []StructField{{Name: "next", TypeName: "Node"}, {Name: "kids", TypeName: FieldArray}})
	kids := NewArray(nil)
	node := NewStruct(def, map[string]Object{"kids": kids})
	node.fields["next"] = node
	kids.Push(node)
	assert.Equal(t, "Node{next: Node{...}, kids: [Node{...}]}", node.Inspect())

	// the same array twice side by side is not a cycle
	inner := NewArray([]Object{&Number{Value: 2}})
	pair := NewArray([]Object{inner, inner})
	assert.Equal(t, "[[2], [2]]", pair.Inspect())
}

func TestEqualTerminatesOnCycles(t *testing.T) {
	a := NewArray([]Object{&Number{Value: 1}})
	a.Push(a)
	b := NewArray([]Object{&Number{Value: 1}})
	b.Push(b)
	c := NewArray([]Object{&Number{Value: 2}})
	c.Push(c)

	assert.True(t, Equal(a, a))
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(a, NewArray([]Object{&Number{Value: 1}})))
}
