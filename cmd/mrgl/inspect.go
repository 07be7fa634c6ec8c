package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"murlang/internal/ast"
	"murlang/internal/diag"
	"murlang/internal/evaluator"
	"murlang/internal/journal"
	"murlang/internal/lexer"
	"murlang/internal/parser"

	"github.com/urfave/cli/v3"
)

func (a *app) checkAction(ctx context.Context, cmd *cli.Command) error {
	file, err := requireFile(cmd)
	if err != nil {
		return err
	}
	cfg, err := a.configuration(cmd, file)
	if err != nil {
		return err
	}
	src, err := readSource(file)
	if err != nil {
		return err
	}
	program, ok := a.parseSource(src, cfg.Color)
	if !ok {
		return nil
	}

	switch {
	case cmd.Bool("json"):
		json, err := parser.RenderASTAsJSON(program)
		if err != nil {
			return err
		}
		fmt.Fprint(a.stdout, json)
	case cmd.Bool("tree"):
		fmt.Fprint(a.stdout, parser.RenderASTAsText(program, 0))
	default:
		fmt.Fprintln(a.stdout, summarize(file, program))
	}
	return nil
}

// summarize counts top-level statements by node type, e.g.
// "prog.mur: ok, 3 statements (FunctionStatement 1, PrintStatement 2)".
func summarize(file string, program *ast.Program) string {
	counts := map[string]int{}
	for _, stmt := range program.Statements {
		name := strings.TrimPrefix(fmt.Sprintf("%T", stmt), "*ast.")
		counts[name]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, counts[name]))
	}
	noun := "statements"
	if len(program.Statements) == 1 {
		noun = "statement"
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: ok, 0 %s", file, noun)
	}
	return fmt.Sprintf("%s: ok, %d %s (%s)", file, len(program.Statements), noun, strings.Join(parts, ", "))
}

func (a *app) tokensAction(ctx context.Context, cmd *cli.Command) error {
	file, err := requireFile(cmd)
	if err != nil {
		return err
	}
	cfg, err := a.configuration(cmd, file)
	if err != nil {
		return err
	}
	src, err := readSource(file)
	if err != nil {
		return err
	}
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		diag.NewPrinter(a.stderr, cfg.Color).Print(err, src)
		a.status = int(evaluator.ExitParseFailure)
		return nil
	}
	for _, tok := range tokens {
		fmt.Fprintf(a.stdout, "%4d:%-3d %-12s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
	}
	return nil
}

func (a *app) historyAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := a.configuration(cmd, "")
	if err != nil {
		return err
	}
	if cfg.Journal == "" {
		return fmt.Errorf("history: no journal configured, pass --journal or set MURLANG_JOURNAL")
	}

	j, err := journal.Open(ctx, cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.Recent(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintln(a.stdout, formatRun(r))
		if !cmd.Bool("units") {
			continue
		}
		units, err := j.Units(ctx, r.ID)
		if err != nil {
			return err
		}
		for _, u := range units {
			fmt.Fprintln(a.stdout, "    "+formatUnit(u))
		}
	}
	return nil
}

func formatRun(r journal.RunRecord) string {
	status := "running"
	if !r.FinishedAt.IsZero() {
		status = fmt.Sprintf("exit %d in %s", r.Status, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}
	line := fmt.Sprintf("#%d %s %s %.12s %s", r.ID, r.StartedAt.Format(time.RFC3339), r.Program, r.Digest, status)
	if r.ErrorKind != "" {
		line += fmt.Sprintf(" (%s: %s)", r.ErrorKind, r.ErrorMessage)
	}
	return line
}

func formatUnit(u journal.UnitRecord) string {
	line := fmt.Sprintf("%-6s %-12s %-9s", u.Kind, u.Label, u.State)
	if u.ErrorKind != "" {
		return line + " " + u.ErrorKind + ": " + u.ErrorMessage
	}
	return line + " " + u.Outcome
}
