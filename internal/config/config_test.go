package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestLoad_YML(t *testing.T) {
	dir := t.TempDir()
	content := "keyword: func\nunchanged_marker: \"// same\"\narchive_dir: backups\ndiff_context: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".weave.yml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "func", cfg.Keyword)
	assert.Equal(t, "// same", cfg.UnchangedMarker)
	assert.Equal(t, "backups", cfg.ArchiveDir)
	assert.Equal(t, 5, cfg.DiffContext)
}

func TestLoad_YAMLFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".weave.yaml"), []byte("keyword: def\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "def", cfg.Keyword)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":         "keyword: [unclosed\n",
		"negative context": "diff_context: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ".weave.yml"), []byte(content), 0644))

			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}
