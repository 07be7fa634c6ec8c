package diag

import (
	"errors"
	"fmt"
	"io"
	"murlang/internal/lexer"
	"murlang/internal/object"
	"murlang/internal/parser"
	"murlang/internal/token"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Diagnostic is the printable form of a lex, parse or runtime error.
type Diagnostic struct {
	Kind    object.ErrorKind
	Pos     token.Position
	Message string
	Trace   []object.StackFrame
}

func FromError(err error) Diagnostic {
	var (
		lexErr   *lexer.LexError
		parseErr *parser.ParseError
		rtErr    *object.RuntimeError
	)
	switch {
	case errors.As(err, &lexErr):
		return Diagnostic{Kind: object.LexError, Pos: lexErr.Pos, Message: lexErr.Message}
	case errors.As(err, &parseErr):
		return Diagnostic{Kind: object.ParseError, Pos: parseErr.Pos, Message: parseErr.Message}
	case errors.As(err, &rtErr):
		return Diagnostic{Kind: rtErr.Kind, Pos: rtErr.Pos, Message: rtErr.Message, Trace: rtErr.StackTrace}
	}
	return Diagnostic{Kind: "Error", Message: err.Error()}
}

// UseColor resolves a colour mode of auto, always or never for w. Auto
// colours only terminals and honours NO_COLOR.
func UseColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type Printer struct {
	w     io.Writer
	kind  *color.Color
	where *color.Color
	theme *color.Color
	caret *color.Color
	trace *color.Color
}

func NewPrinter(w io.Writer, mode string) *Printer {
	p := &Printer{
		w:     w,
		kind:  color.New(color.FgRed, color.Bold),
		where: color.New(color.FgYellow),
		theme: color.New(color.FgGreen, color.Italic),
		caret: color.New(color.FgRed),
		trace: color.New(color.Faint),
	}
	enabled := UseColor(mode, w)
	for _, c := range []*color.Color{p.kind, p.where, p.theme, p.caret, p.trace} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Format renders d as "KIND at line:col: theme: message", followed by a
// source snippet when source is known and any call frames.
func (p *Printer) Format(d Diagnostic, source string) string {
	var b strings.Builder

	b.WriteString(p.kind.Sprint(string(d.Kind)))
	if d.Pos.Line > 0 {
		b.WriteString(" at ")
		b.WriteString(p.where.Sprint(d.Pos.String()))
	}
	b.WriteString(": ")
	if d.Kind != "Error" {
		b.WriteString(p.theme.Sprint(object.Theme(d.Kind)))
		b.WriteString(": ")
	}
	b.WriteString(d.Message)

	if d.Pos.Line > 0 && source != "" {
		if snippet := ContextLines(source, d.Pos.Line, d.Pos.Column); snippet != "" {
			cut := strings.LastIndex(snippet, "\n")
			b.WriteString("\n")
			b.WriteString(snippet[:cut+1])
			b.WriteString(p.caret.Sprint(snippet[cut+1:]))
		}
	}

	for _, frame := range d.Trace {
		b.WriteString("\n")
		b.WriteString(p.trace.Sprint(fmt.Sprintf("  at [%3d:%3d] %s", frame.Pos.Line, frame.Pos.Column, frame.Function)))
	}

	return b.String()
}

// Print writes the diagnostic for err followed by a newline.
func (p *Printer) Print(err error, source string) {
	fmt.Fprintln(p.w, p.Format(FromError(err), source))
}
