package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"murlang/internal/ast"
	"murlang/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func writeProgram(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func invoke(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	status := run(context.Background(), append([]string{"mrgl"}, args...), &stdout, &stderr, noEnv)
	return status, stdout.String(), stderr.String()
}

func TestRunCommand(t *testing.T) {
	file := writeProgram(t, "big.mur", "grrr x = 10\nmrglif (x > 5) mrgl glglrr \"big\" grl\n")

	status, out, _ := invoke(t, "run", file)
	assert.Equal(t, 0, status)
	assert.Equal(t, "big\n", out)
}

func TestRunShorthand(t *testing.T) {
	file := writeProgram(t, "hello.mur", `glglrr "mrgl"`)

	status, out, _ := invoke(t, file)
	assert.Equal(t, 0, status)
	assert.Equal(t, "mrgl\n", out)
}

func TestRunExitStatuses(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		status   int
		contains string
	}{
		{"runtime error", `glglrr 1 / 0`, 70, "DivisionByZero"},
		{"parse error", `grrr = 1`, 65, "ParseError"},
		{"lex error", `glglrr "open`, 65, "LexError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeProgram(t, "prog.mur", tt.src)
			status, _, errOut := invoke(t, "--color", "never", "run", file)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, errOut, tt.contains)
		})
	}
}

func TestRunUsageErrors(t *testing.T) {
	status, _, errOut := invoke(t, "run")
	assert.Equal(t, exitUsage, status)
	assert.Contains(t, errOut, "missing <file.mur>")

	status, _, errOut = invoke(t, "run", filepath.Join(t.TempDir(), "absent.mur"))
	assert.Equal(t, exitUsage, status)
	assert.Contains(t, errOut, "absent.mur")
}

func TestRunRejectsBadConfigFile(t *testing.T) {
	file := writeProgram(t, "prog.mur", `glglrr 1`)
	cfg := filepath.Join(filepath.Dir(file), "murlang.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("tadpoles: 3\n"), 0o644))

	status, out, errOut := invoke(t, "run", file)
	assert.Equal(t, exitUsage, status)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "tadpoles")
}

func TestRunWritesDebugAST(t *testing.T) {
	file := writeProgram(t, "prog.mur", `glglrr 1`)

	status, _, _ := invoke(t, "run", "--debug-ast", "--debug-txt-ast", file)
	require.Equal(t, 0, status)
	assert.FileExists(t, file+".ast.json")
	assert.FileExists(t, file+".ast.txt")
}

func TestCheckCommand(t *testing.T) {
	file := writeProgram(t, "prog.mur", "grrr x = 1\nglglrr x\nglglrr x + 1\n")

	status, out, _ := invoke(t, "check", file)
	assert.Equal(t, 0, status)
	assert.Equal(t, file+": ok, 3 statements (PrintStatement 2, VarStatement 1)\n", out)

	status, out, _ = invoke(t, "check", "--json", file)
	assert.Equal(t, 0, status)
	assert.Contains(t, out, `"VarStatement"`)
}

func TestSummarizeEmptyProgram(t *testing.T) {
	assert.Equal(t, "x.mur: ok, 0 statements", summarize("x.mur", &ast.Program{}))

	program, err := parser.Parse(`glglrr 1`)
	require.NoError(t, err)
	assert.Equal(t, "x.mur: ok, 1 statement (PrintStatement 1)", summarize("x.mur", program))
}

func TestTokensCommand(t *testing.T) {
	file := writeProgram(t, "prog.mur", `grrr x = 1`)

	status, out, _ := invoke(t, "tokens", file)
	assert.Equal(t, 0, status)
	assert.Contains(t, out, `"grrr"`)
	assert.Contains(t, out, "EOF")
}

func TestJournalAndHistory(t *testing.T) {
	file := writeProgram(t, "prog.mur", `
mrglspawn left mrgl grrrtn 1 grl
mrglwait left
glglrr left
`)
	dsn := "sqlite3://" + filepath.Join(t.TempDir(), "journal.db")

	status, out, _ := invoke(t, "run", "--journal", dsn, file)
	require.Equal(t, 0, status)
	assert.Equal(t, "1\n", out)

	status, out, _ = invoke(t, "history", "--journal", dsn, "--units")
	require.Equal(t, 0, status)
	assert.Contains(t, out, "#1 ")
	assert.Contains(t, out, "exit 0")
	assert.Contains(t, out, "left")
}

func TestHistoryNeedsJournal(t *testing.T) {
	status, _, errOut := invoke(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "history")
	assert.Equal(t, exitUsage, status)
	assert.Contains(t, errOut, "no journal configured")
}

func TestVersionCommand(t *testing.T) {
	status, out, _ := invoke(t, "version")
	assert.Equal(t, 0, status)
	assert.Equal(t, "mrgl version 'vdev' unknown unknown\n", out)
}

func TestLogLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"NONE", levelNone},
		{"", levelNone},
		{"chatty", slog.LevelError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, logLevelFromString(tt.input), tt.input)
	}
}
