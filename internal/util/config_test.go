package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfiguration(t *testing.T) {
	src := `
workers: 4
logLevel: debug
journal: sqlite3://runs.db
color: never
debugTxtAst: true
`
	cfg, err := DecodeConfiguration(strings.NewReader(src), DefaultConfiguration())
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sqlite3://runs.db", cfg.Journal)
	assert.Equal(t, "never", cfg.Color)
	assert.True(t, cfg.DebugTxtAST)
	assert.False(t, cfg.DebugJsonAST)
}

func TestDecodeConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "workerz: 3\n"},
		{"negative workers", "workers: -1\n"},
		{"bad color", "color: sometimes\n"},
		{"bad level", "logLevel: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := DefaultConfiguration()
			cfg, err := DecodeConfiguration(strings.NewReader(tt.src), base)
			assert.Error(t, err)
			assert.Equal(t, base, cfg)
		})
	}
}

func TestEmptyConfigurationKeepsBase(t *testing.T) {
	base := DefaultConfiguration()
	base.Workers = 3
	cfg, err := DecodeConfiguration(strings.NewReader(""), base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	base := DefaultConfiguration()
	cfg, err := LoadConfiguration(filepath.Join(t.TempDir(), ConfigFileName), base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestLoadConfigurationFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("workers: 8\n"), 0644))

	cfg, err := LoadConfiguration(path, DefaultConfiguration())
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "auto", cfg.Color)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MURLANG_WORKERS":   "6",
		"MURLANG_LOG_LEVEL": "INFO",
		"MURLANG_COLOR":     "always",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfiguration()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "always", cfg.Color)
	assert.Equal(t, "", cfg.Journal)

	env["MURLANG_WORKERS"] = "many"
	assert.Error(t, cfg.ApplyEnv(lookup))
}
