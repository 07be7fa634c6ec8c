package journal

import (
	"bytes"
	"context"
	"errors"
	"murlang/internal/evaluator"
	"murlang/internal/object"
	"murlang/internal/parser"
	"murlang/internal/token"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), "sqlite3://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSplitDSN(t *testing.T) {
	tests := []struct {
		dsn    string
		driver string
		source string
	}{
		{"sqlite3://runs.db", "sqlite3", "runs.db"},
		{"sqlite3://:memory:", "sqlite3", ":memory:"},
		{"mysql://user:pw@tcp(localhost:3306)/murlang", "mysql", "user:pw@tcp(localhost:3306)/murlang"},
		{"postgres://user@localhost/murlang?sslmode=disable", "postgres", "postgres://user@localhost/murlang?sslmode=disable"},
		{"postgresql://localhost/murlang", "postgres", "postgresql://localhost/murlang"},
	}
	for _, tt := range tests {
		d, source, err := splitDSN(tt.dsn)
		require.NoError(t, err, tt.dsn)
		assert.Equal(t, tt.driver, d.driver)
		assert.Equal(t, tt.source, source)
	}

	for _, bad := range []string{"runs.db", "redis://localhost", "sqlite3://"} {
		_, _, err := splitDSN(bad)
		assert.Error(t, err, bad)
	}
}

func TestRebind(t *testing.T) {
	pg := &Journal{dialect: dialects["postgres"]}
	assert.Equal(t, "UPDATE runs SET a = $1, b = $2 WHERE id = $3", pg.rebind("UPDATE runs SET a = ?, b = ? WHERE id = ?"))

	lite := &Journal{dialect: dialects["sqlite3"]}
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestDigest(t *testing.T) {
	a := Digest(`glglrr "big"`)
	assert.Len(t, a, 64)
	assert.Equal(t, a, Digest(`glglrr "big"`))
	assert.NotEqual(t, a, Digest(`glglrr "small"`))
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	j := openMemory(t)

	run, err := j.BeginRun(ctx, "demo.mur", "glglrr 1")
	require.NoError(t, err)
	assert.Equal(t, Digest("glglrr 1"), run.Digest)

	run.UnitSettled("ok", "spawn", &object.Number{Value: 3}, nil)
	run.UnitSettled("bad", "spawn", nil,
		object.NewRuntimeError(object.DivisionByZero, token.Position{Line: 1, Column: 1}, "cannot divide 1 by zero"))
	run.UnitSettled("odd", "async", nil, errors.New("plain failure"))

	rtErr := object.NewRuntimeError(object.UnboundName, token.Position{}, "'x'")
	require.NoError(t, run.Finish(ctx, 70, rtErr))

	runs, err := j.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "demo.mur", runs[0].Program)
	assert.Equal(t, 70, runs[0].Status)
	assert.Equal(t, "UnboundName", runs[0].ErrorKind)
	assert.Equal(t, "'x'", runs[0].ErrorMessage)
	assert.False(t, runs[0].FinishedAt.IsZero())

	units, err := j.Units(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, units, 3)
	sort.Slice(units, func(a, b int) bool { return units[a].Label < units[b].Label })

	assert.Equal(t, "bad", units[0].Label)
	assert.Equal(t, "failed", units[0].State)
	assert.Equal(t, "DivisionByZero", units[0].ErrorKind)
	assert.Equal(t, "cannot divide 1 by zero", units[0].ErrorMessage)

	assert.Equal(t, "odd", units[1].Label)
	assert.Equal(t, "async", units[1].Kind)
	assert.Equal(t, "Error", units[1].ErrorKind)

	assert.Equal(t, "ok", units[2].Label)
	assert.Equal(t, "completed", units[2].State)
	assert.Equal(t, "3", units[2].Outcome)
}

func TestRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	j := openMemory(t)

	for _, name := range []string{"a.mur", "b.mur", "c.mur"} {
		run, err := j.BeginRun(ctx, name, name)
		require.NoError(t, err)
		require.NoError(t, run.Finish(ctx, 0, nil))
	}

	runs, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.mur", runs[0].Program)
	assert.Equal(t, "b.mur", runs[1].Program)
	assert.Empty(t, runs[0].ErrorKind)
}

func TestRunObservesExecution(t *testing.T) {
	ctx := context.Background()
	j := openMemory(t)

	src := `
mrglspawn left mrgl grrrtn 1 grl
mrglspawn right mrgl grrrtn 2 grl
mrglwait left, right
glglrr left + right
`
	program, err := parser.Parse(src)
	require.NoError(t, err)

	run, err := j.BeginRun(ctx, "sum.mur", src)
	require.NoError(t, err)

	var out bytes.Buffer
	status, err := evaluator.Execute(ctx, program, evaluator.WithWriter(&out), evaluator.WithObserver(run))
	require.NoError(t, err)
	require.NoError(t, run.Finish(ctx, int(status), err))
	assert.Equal(t, "3\n", out.String())

	units, err := j.Units(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, units, 2)
	for _, u := range units {
		assert.Equal(t, "spawn", u.Kind)
		assert.Equal(t, "completed", u.State)
	}
}
