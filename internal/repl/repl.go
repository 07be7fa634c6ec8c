package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"murlang/internal/ast"
	"murlang/internal/diag"
	"murlang/internal/evaluator"
	"murlang/internal/object"
	"murlang/internal/parser"
)

const (
	PROMPT      = "mrgl> "
	CONTINUE    = "....> "
	endOfInput  = "end of input"
	exitCommand = ":q"
)

// Prompter reads one line of input after showing prompt. It returns io.EOF
// when input is exhausted. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// historian is implemented by prompters that keep an editing history.
type historian interface {
	AppendHistory(item string)
}

type scanPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads lines from in, writing prompts to out. It serves
// piped input where line editing is unavailable.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	return &scanPrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *scanPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// Start evaluates programs read through in until EOF or ":q", sharing one
// session between them. Input that stops in the middle of a block keeps
// reading on the next line. Values of trailing expression statements are
// echoed to out.
func Start(ctx context.Context, in Prompter, out io.Writer, errs *diag.Printer, opts ...evaluator.Option) error {
	session := evaluator.NewSession(ctx, append([]evaluator.Option{evaluator.WithWriter(out)}, opts...)...)

	var readErr error
	for {
		src, err := readProgram(in)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
		if strings.TrimSpace(src) == exitCommand {
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		if h, ok := in.(historian); ok {
			h.AppendHistory(strings.ReplaceAll(strings.TrimSpace(src), "\n", " "))
		}

		program, err := parser.Parse(src)
		if err != nil {
			errs.Print(err, src)
			continue
		}
		result, err := session.Eval(program)
		if err != nil {
			errs.Print(err, src)
			continue
		}
		if echo(program, result) {
			fmt.Fprintln(out, result.Inspect())
		}
	}

	if err := session.Close(); err != nil {
		errs.Print(err, "")
	}
	return readErr
}

// readProgram collects lines until they parse or fail for a reason other
// than running out of input.
func readProgram(in Prompter) (string, error) {
	var b strings.Builder
	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONTINUE
		}
		line, err := in.Prompt(prompt)
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteString("\n")

		src := b.String()
		if _, err := parser.Parse(src); err != nil && incomplete(err) {
			continue
		}
		return src, nil
	}
}

// incomplete reports a parse failure caused by running out of input.
func incomplete(err error) bool {
	var parseErr *parser.ParseError
	return errors.As(err, &parseErr) && parseErr.Found == endOfInput
}

func echo(program *ast.Program, result object.Object) bool {
	if len(program.Statements) == 0 || result == object.UNIT {
		return false
	}
	_, isExpr := program.Statements[len(program.Statements)-1].(*ast.ExpressionStatement)
	return isExpr
}
