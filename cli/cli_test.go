package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_Defaults(t *testing.T) {
	cfg, err := ParseArgs([]string{"-m", "app.js"})
	require.NoError(t, err)

	assert.Equal(t, "app.js", cfg.Master)
	assert.Empty(t, cfg.Patch)
	assert.Equal(t, "function", cfg.Keyword)
	assert.Equal(t, "/* Unchanged */", cfg.UnchangedMarker)
	assert.True(t, cfg.StdoutOnly())
	assert.Equal(t, map[string]bool{"master": true}, cfg.Set)
}

func TestParseArgs_AllFlags(t *testing.T) {
	cfg, err := ParseArgs([]string{
		"--master", "a.js", "--patch", "-", "-k", "def", "--marker", "# same",
		"-o", "out.js", "-w", "--no-archive", "-c", "-n", "-b", "-d", "--markdown",
		"--diagnostics", "--no-animation", "--config", "weave.yml",
	})
	require.NoError(t, err)

	assert.Equal(t, "-", cfg.Patch)
	assert.Equal(t, "def", cfg.Keyword)
	assert.Equal(t, "# same", cfg.UnchangedMarker)
	assert.Equal(t, "out.js", cfg.Output)
	assert.Equal(t, "weave.yml", cfg.ConfigPath)
	assert.True(t, cfg.Write && cfg.NoArchive && cfg.Copy && cfg.Nvim && cfg.Buffer)
	assert.True(t, cfg.Diff && cfg.Markdown && cfg.Diagnostics && cfg.NoAnimation)
	assert.False(t, cfg.StdoutOnly())
	assert.True(t, cfg.Set["keyword"])
	assert.True(t, cfg.Set["marker"])
}

func TestParseArgs_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing master", args: []string{}, wantErr: "--master is required"},
		{name: "both stdin", args: []string{"-m", "-", "-p", "-"}, wantErr: "cannot both be stdin"},
		{name: "write stdin master", args: []string{"-m", "-", "-w"}, wantErr: "need a master file"},
		{name: "buffer without nvim", args: []string{"-m", "a.js", "-b"}, wantErr: "--buffer requires --nvim"},
		{name: "no-archive without write", args: []string{"-m", "a.js", "--no-archive"}, wantErr: "--no-archive requires --write"},
		{name: "empty keyword", args: []string{"-m", "a.js", "-k", ""}, wantErr: "--keyword must not be empty"},
		{name: "unknown flag", args: []string{"-m", "a.js", "--bogus"}, wantErr: "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{Buffer: true, Keyword: ""}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--master is required")
	assert.Contains(t, err.Error(), "--buffer requires --nvim")
	assert.Contains(t, err.Error(), "--keyword must not be empty")
}
