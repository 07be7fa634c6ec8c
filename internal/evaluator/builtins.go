package evaluator

import (
	"murlang/internal/object"
	"murlang/internal/token"
	"strconv"
	"strings"
	"unicode/utf8"
)

var builtins = map[string]*object.Builtin{
	"len":    funcLen(),
	"push":   funcPush(),
	"pop":    funcPop(),
	"text":   funcText(),
	"number": funcNumber(),
	"kind":   funcKind(),
}

// builtinError carries no position; applyFunction stamps the call site.
func builtinError(kind object.ErrorKind, format string, a ...interface{}) *object.RuntimeError {
	return object.NewRuntimeError(kind, token.Position{}, format, a...)
}

func funcLen() *object.Builtin {
	return &object.Builtin{
		Name:  "len",
		Arity: 1,
		Fn: func(args ...object.Object) object.Object {
			switch arg := args[0].(type) {
			case *object.Array:
				return &object.Number{Value: float64(arg.Len())}
			case *object.String:
				return &object.Number{Value: float64(utf8.RuneCountInString(arg.Value))}
			default:
				return builtinError(object.TypeMismatch, "argument to `len` must be array or text, got %s",
					object.Kind(args[0]))
			}
		},
	}
}

// funcPush appends to the array in place and returns its new length.
func funcPush() *object.Builtin {
	return &object.Builtin{
		Name:  "push",
		Arity: 2,
		Fn: func(args ...object.Object) object.Object {
			arr, ok := args[0].(*object.Array)
			if !ok {
				return builtinError(object.TypeMismatch, "argument to `push` must be array, got %s",
					object.Kind(args[0]))
			}
			return &object.Number{Value: float64(arr.Push(args[1]))}
		},
	}
}

func funcPop() *object.Builtin {
	return &object.Builtin{
		Name:  "pop",
		Arity: 1,
		Fn: func(args ...object.Object) object.Object {
			arr, ok := args[0].(*object.Array)
			if !ok {
				return builtinError(object.TypeMismatch, "argument to `pop` must be array, got %s",
					object.Kind(args[0]))
			}
			last, ok := arr.Pop()
			if !ok {
				return builtinError(object.IndexOutOfRange, "cannot pop from an empty array")
			}
			return last
		},
	}
}

func funcText() *object.Builtin {
	return &object.Builtin{
		Name:  "text",
		Arity: 1,
		Fn: func(args ...object.Object) object.Object {
			if s, ok := args[0].(*object.String); ok {
				return s
			}
			return &object.String{Value: args[0].Inspect()}
		},
	}
}

func funcNumber() *object.Builtin {
	return &object.Builtin{
		Name:  "number",
		Arity: 1,
		Fn: func(args ...object.Object) object.Object {
			switch arg := args[0].(type) {
			case *object.Number:
				return arg
			case *object.String:
				v, err := strconv.ParseFloat(strings.TrimSpace(arg.Value), 64)
				if err != nil {
					return builtinError(object.TypeMismatch, "%q is not a number", arg.Value)
				}
				return &object.Number{Value: v}
			default:
				return builtinError(object.TypeMismatch, "argument to `number` must be text, got %s",
					object.Kind(args[0]))
			}
		},
	}
}

func funcKind() *object.Builtin {
	return &object.Builtin{
		Name:  "kind",
		Arity: 1,
		Fn: func(args ...object.Object) object.Object {
			return &object.String{Value: object.Kind(args[0])}
		},
	}
}
