package object

import (
	"bytes"
	"fmt"
	"murlang/internal/token"
)

type ErrorKind string

const (
	UnboundName       ErrorKind = "UnboundName"
	TypeMismatch      ErrorKind = "TypeMismatch"
	FieldMismatch     ErrorKind = "FieldMismatch"
	IndexOutOfRange   ErrorKind = "IndexOutOfRange"
	UnknownSpawnLabel ErrorKind = "UnknownSpawnLabel"
	SpawnLabelInUse   ErrorKind = "SpawnLabelInUse"
	DivisionByZero    ErrorKind = "DivisionByZero"
	ArityMismatch     ErrorKind = "ArityMismatch"
	InvalidControl    ErrorKind = "InvalidControl"
	Cancelled         ErrorKind = "Cancelled"
	InternalFault     ErrorKind = "InternalFault"

	// reported by the lexer and parser, never raised at runtime
	LexError   ErrorKind = "LexError"
	ParseError ErrorKind = "ParseError"
)

var themes = map[ErrorKind]string{
	UnboundName:       "floats undefined in the tide. Summon it, fool!",
	TypeMismatch:      "Glub! Type spirits are angry",
	FieldMismatch:     "The shell does not fit this murloc",
	IndexOutOfRange:   "You swam beyond the coral bounds!",
	UnknownSpawnLabel: "No such tadpole was ever spawned",
	SpawnLabelInUse:   "That tadpole still swims",
	DivisionByZero:    "You dare divide by the abyss?! Void screams back!",
	ArityMismatch:     "The ritual needs a different number of offerings",
	InvalidControl:    "Forbidden dance of operations",
	Cancelled:         "The tide went out before the ritual finished",
	InternalFault:     "Something snapped deep in the reef",
	LexError:          "BLRGHH! Unreadable glyphs in the kelp scroll",
	ParseError:        "The kelp scroll is tangled",
}

// Theme returns the murloc flavour text for kind.
func Theme(kind ErrorKind) string {
	if t, ok := themes[kind]; ok {
		return t
	}
	return "Mrglglgl?!"
}

// StackFrame records one function call an error unwound through.
type StackFrame struct {
	Function string
	Pos      token.Position
}

type RuntimeError struct {
	Kind       ErrorKind
	Message    string
	Pos        token.Position
	StackTrace []StackFrame
}

func NewRuntimeError(kind ErrorKind, pos token.Position, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, a...), Pos: pos}
}

func (re *RuntimeError) Type() ObjectType { return ERROR_OBJ }
func (re *RuntimeError) Inspect() string {
	var buf bytes.Buffer
	buf.WriteString(re.Error())
	for _, frame := range re.StackTrace {
		fmt.Fprintf(&buf, "\n  at [%3d:%3d] %s", frame.Pos.Line, frame.Pos.Column, frame.Function)
	}
	return buf.String()
}

func (re *RuntimeError) Error() string {
	if re.Pos.Line > 0 {
		return fmt.Sprintf("%s at %s: %s: %s", re.Kind, re.Pos, Theme(re.Kind), re.Message)
	}
	return fmt.Sprintf("%s: %s: %s", re.Kind, Theme(re.Kind), re.Message)
}

// WithFrame appends a call frame, returning the same error.
func (re *RuntimeError) WithFrame(function string, pos token.Position) *RuntimeError {
	re.StackTrace = append(re.StackTrace, StackFrame{Function: function, Pos: pos})
	return re
}

// ErrorStructDef is the shape a caught error takes inside a catch block.
var ErrorStructDef = NewStructDef("Error", []StructField{
	{Name: "kind", TypeName: FieldText},
	{Name: "message", TypeName: FieldText},
})

// AsStruct converts the error into the Error struct bound by mrglurp.
func (re *RuntimeError) AsStruct() *Struct {
	return NewStruct(ErrorStructDef, map[string]Object{
		"kind":    &String{Value: string(re.Kind)},
		"message": &String{Value: re.Message},
	})
}
