package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"murlang/internal/diag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(t *testing.T, input string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Start(context.Background(), NewPrompter(strings.NewReader(input), &out), &out, diag.NewPrinter(&errOut, "never"))
	require.NoError(t, err)
	return out.String(), errOut.String()
}

func TestBindingsSurviveBetweenLines(t *testing.T) {
	out, errOut := session(t, "grrr x = 2\nglglrr x * 21\n")

	assert.Empty(t, errOut)
	assert.Equal(t, PROMPT+PROMPT+"42\n"+PROMPT, out)
}

func TestExpressionValuesAreEchoed(t *testing.T) {
	out, _ := session(t, "1 + 2\n")
	assert.Equal(t, PROMPT+"3\n"+PROMPT, out)
}

func TestBlocksContinueAcrossLines(t *testing.T) {
	out, errOut := session(t, "grrrfnrrg twice(n) mrgl\ngrrrtn n * 2\ngrl\nglglrr twice(4)\n")

	assert.Empty(t, errOut)
	assert.Equal(t, PROMPT+CONTINUE+CONTINUE+PROMPT+"8\n"+PROMPT, out)
}

func TestErrorsDoNotEndTheSession(t *testing.T) {
	out, errOut := session(t, "glglrr nope\ngrrr = \nglglrr \"still here\"\n")

	assert.Contains(t, errOut, "UnboundName")
	assert.Contains(t, errOut, "ParseError")
	assert.Contains(t, out, "still here\n")
}

func TestQuitCommand(t *testing.T) {
	out, _ := session(t, ":q\nglglrr 1\n")
	assert.Equal(t, PROMPT, out)
}

type scriptedPrompter struct {
	lines   []string
	prompts []string
	history []string
}

func (p *scriptedPrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) AppendHistory(item string) {
	p.history = append(p.history, item)
}

func TestHistoryKeepsWholePrograms(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"mrglif (mrglyes) mrgl", "glglrr 1", "grl", "", "glglrr 2"}}
	var out, errOut bytes.Buffer

	require.NoError(t, Start(context.Background(), p, &out, diag.NewPrinter(&errOut, "never")))

	assert.Equal(t, "1\n2\n", out.String())
	assert.Equal(t, []string{"mrglif (mrglyes) mrgl glglrr 1 grl", "glglrr 2"}, p.history)
	assert.Equal(t, []string{PROMPT, CONTINUE, CONTINUE, PROMPT, PROMPT, PROMPT}, p.prompts)
}

type failingPrompter struct{}

func (failingPrompter) Prompt(string) (string, error) { return "", errors.New("tty gone") }

func TestReadFailureIsReturned(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Start(context.Background(), failingPrompter{}, &out, diag.NewPrinter(&errOut, "never"))
	assert.EqualError(t, err, "tty gone")
}
