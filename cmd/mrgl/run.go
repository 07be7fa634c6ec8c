package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"murlang/internal/ast"
	"murlang/internal/diag"
	"murlang/internal/evaluator"
	"murlang/internal/journal"
	"murlang/internal/parser"
	"murlang/internal/repl"
	"murlang/internal/util"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// levelNone sits above every level the interpreter logs at.
const levelNone = slog.LevelError + 4

const historyFile = ".mrgl_history"

// configuration layers murlang.yaml, MURLANG_* variables and flags, in that
// order, over the defaults.
func (a *app) configuration(cmd *cli.Command, file string) (util.Configuration, error) {
	cfg := util.DefaultConfiguration()
	cfg.Version = Version
	cfg.BuildDate = BuildDate
	cfg.Commit = Commit

	dir := "."
	if file != "" {
		dir = filepath.Dir(file)
	}
	cfg.RootPath = dir

	path := cmd.String("config")
	if path == "" {
		path = filepath.Join(dir, util.ConfigFileName)
	}
	cfg, err := util.LoadConfiguration(path, cfg)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(a.lookupEnv); err != nil {
		return cfg, err
	}

	if cmd.IsSet("workers") {
		cfg.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("journal") {
		cfg.Journal = cmd.String("journal")
	}
	if cmd.IsSet("color") {
		cfg.Color = cmd.String("color")
	}
	if cmd.Bool("debug-ast") {
		cfg.DebugJsonAST = true
	}
	if cmd.Bool("debug-txt-ast") {
		cfg.DebugTxtAST = true
	}
	return cfg, cfg.Validate()
}

// configureLogging installs the default JSON logger and returns a function
// closing the log file, if one was opened.
func (a *app) configureLogging(cfg util.Configuration) func() {
	logWriter, closeLog := a.configureLogWriter(cfg.LogFile)
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(cfg.LogLevel),
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logWriter, loggerOptions)))
	return closeLog
}

func (a *app) configureLogWriter(logFile string) (io.Writer, func()) {
	noop := func() {}
	if logFile == "" {
		return a.stderr, noop
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(a.stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return a.stderr, noop
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(a.stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return a.stderr, noop
	}
	return f, func() { f.Close() }
}

func logLevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "":
		return levelNone
	default:
		return slog.LevelError
	}
}

func readSource(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

// parseSource parses src and reports a failure on stderr, setting the parse
// failure status.
func (a *app) parseSource(src string, color string) (*ast.Program, bool) {
	program, err := parser.Parse(src)
	if err != nil {
		diag.NewPrinter(a.stderr, color).Print(err, src)
		a.status = int(evaluator.ExitParseFailure)
		return nil, false
	}
	return program, true
}

func (a *app) runFile(ctx context.Context, cmd *cli.Command, file string) error {
	cfg, err := a.configuration(cmd, file)
	if err != nil {
		return err
	}
	closeLog := a.configureLogging(cfg)
	defer closeLog()

	src, err := readSource(file)
	if err != nil {
		return err
	}

	program, ok := a.parseSource(src, cfg.Color)
	if !ok {
		return nil
	}
	writeDebugAST(program, file, cfg)

	opts := []evaluator.Option{
		evaluator.WithWriter(a.stdout),
		evaluator.WithConfig(cfg),
	}

	var record *journal.Run
	if cfg.Journal != "" {
		j, err := journal.Open(ctx, cfg.Journal)
		if err != nil {
			return err
		}
		defer j.Close()
		if record, err = j.BeginRun(ctx, file, src); err != nil {
			return err
		}
		opts = append(opts, evaluator.WithObserver(record))
	}

	status, runErr := evaluator.Execute(ctx, program, opts...)
	a.status = int(status)
	if runErr != nil {
		diag.NewPrinter(a.stderr, cfg.Color).Print(runErr, src)
	}

	if record != nil {
		// the run context may already be cancelled; the outcome still gets recorded
		if err := record.Finish(context.WithoutCancel(ctx), int(status), runErr); err != nil {
			slog.Warn("journal finish failed", slog.Any("error", err))
		}
	}
	return nil
}

func writeDebugAST(program *ast.Program, file string, cfg util.Configuration) {
	if cfg.DebugJsonAST {
		json, err := parser.RenderASTAsJSON(program)
		if err != nil {
			slog.Error("Failed to render AST as JSON",
				slog.Any("error", err))
		} else if err := os.WriteFile(file+".ast.json", []byte(json), 0o644); err != nil {
			slog.Error("Failed to write AST",
				slog.String("path", file+".ast.json"),
				slog.Any("error", err))
		}
	}
	if cfg.DebugTxtAST {
		text := parser.RenderASTAsText(program, 0)
		if err := os.WriteFile(file+".ast.txt", []byte(text), 0o644); err != nil {
			slog.Error("Failed to write AST",
				slog.String("path", file+".ast.txt"),
				slog.Any("error", err))
		}
	}
}

func (a *app) replAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := a.configuration(cmd, "")
	if err != nil {
		return err
	}
	closeLog := a.configureLogging(cfg)
	defer closeLog()

	in, closeIn := a.prompter()
	defer closeIn()

	return repl.Start(ctx, in, a.stdout, diag.NewPrinter(a.stderr, cfg.Color), evaluator.WithConfig(cfg))
}

// prompter uses line editing with a persistent history on a terminal and
// plain line reads otherwise.
func (a *app) prompter() (repl.Prompter, func()) {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return repl.NewPrompter(a.stdin, a.stdout), func() {}
	}

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if hf, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(hf)
		_ = hf.Close()
	}

	return linePrompter{ln}, func() {
		if hf, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(hf)
			_ = hf.Close()
		}
		ln.Close()
	}
}

// linePrompter ends the session on Ctrl-C like it does on Ctrl-D.
type linePrompter struct {
	*liner.State
}

func (p linePrompter) Prompt(prompt string) (string, error) {
	line, err := p.State.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return line, err
}
