package diag

import (
	"bytes"
	"errors"
	"murlang/internal/object"
	"murlang/internal/parser"
	"murlang/internal/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLines(t *testing.T) {
	src := "grrr a = 1\ngrrr b = 2\ngrrr c = a / 0\ngrrr d = 4"

	expected := "     " + "  1 | grrr a = 1\n" +
		"     " + "  2 | grrr b = 2\n" +
		"  >    3 | grrr c = a / 0\n" +
		"                      ^ here"
	assert.Equal(t, expected, ContextLines(src, 3, 12))
}

func TestContextLinesEdges(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		line     int
		col      int
		expected string
	}{
		{"first line", "@", 1, 1, "  >    1 | @\n           ^ here"},
		{"column past end", "ab", 1, 9, "  >    1 | ab\n             ^ here"},
		{"line past end", "ab", 4, 1, ""},
		{"tabs kept", "\tx", 1, 2, "  >    1 | \tx\n           \t^ here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContextLines(tt.src, tt.line, tt.col))
		})
	}
}

func TestFromError(t *testing.T) {
	_, err := parser.Parse("grrr x = \"open")
	d := FromError(err)
	assert.Equal(t, object.LexError, d.Kind)
	assert.Equal(t, 1, d.Pos.Line)

	_, err = parser.Parse("grrr = 1")
	d = FromError(err)
	assert.Equal(t, object.ParseError, d.Kind)

	rt := object.NewRuntimeError(object.TypeMismatch, token.Position{Line: 2, Column: 3}, "bad")
	d = FromError(rt)
	assert.Equal(t, object.TypeMismatch, d.Kind)
	assert.Equal(t, "bad", d.Message)

	d = FromError(errors.New("disk full"))
	assert.Equal(t, object.ErrorKind("Error"), d.Kind)
}

func TestFormatWithoutColor(t *testing.T) {
	src := "grrrfnrrg split(n) mrgl\n  grrrtn n / 0\ngrl\nsplit(10)"
	rt := object.NewRuntimeError(object.DivisionByZero, token.Position{Line: 2, Column: 12}, "cannot divide 10 by zero")
	rt.WithFrame("split", token.Position{Line: 4, Column: 1})

	var out bytes.Buffer
	p := NewPrinter(&out, "never")
	p.Print(rt, src)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "DivisionByZero at 2:12: You dare divide by the abyss?! Void screams back!: cannot divide 10 by zero", lines[0])
	assert.Equal(t, "  >    2 |   grrrtn n / 0", lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "^ here"))
	assert.Equal(t, "  at [  4:  1] split", lines[4])
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestFormatPlainError(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, "never")
	assert.Equal(t, "Error: disk full", p.Format(FromError(errors.New("disk full")), ""))
}

func TestFormatWithColor(t *testing.T) {
	var out bytes.Buffer
	NewPrinter(&out, "always").Print(
		object.NewRuntimeError(object.UnboundName, token.Position{Line: 1, Column: 8}, "'y'"), "glglrr y")
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "UnboundName")
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, UseColor("always", &buf))
	assert.False(t, UseColor("never", &buf))
	assert.False(t, UseColor("auto", &buf), "a buffer is never a terminal")
}
