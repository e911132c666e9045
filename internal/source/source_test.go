package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(stdin string, piped bool, clip string, clipErr error) *Provider {
	return &Provider{
		stdin:         strings.NewReader(stdin),
		isPiped:       func() bool { return piped },
		readClipboard: func() (string, error) { return clip, clipErr },
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()
	masterPath := writeFile(t, dir, "master.js", "function a() { 1 }")
	patchPath := writeFile(t, dir, "patch.js", "function a() { 2 }")

	p := newTestProvider("", false, "", nil)
	master, patch, err := p.Load(context.Background(), masterPath, patchPath)
	require.NoError(t, err)
	assert.Equal(t, "function a() { 1 }", master)
	assert.Equal(t, "function a() { 2 }", patch)
}

func TestLoad_PatchFromPipedStdin(t *testing.T) {
	masterPath := writeFile(t, t.TempDir(), "master.js", "M")

	p := newTestProvider("from stdin", true, "from clipboard", nil)
	_, patch, err := p.Load(context.Background(), masterPath, "")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", patch)
}

func TestLoad_PatchFromClipboard(t *testing.T) {
	masterPath := writeFile(t, t.TempDir(), "master.js", "M")

	p := newTestProvider("", false, "from clipboard", nil)
	_, patch, err := p.Load(context.Background(), masterPath, "")
	require.NoError(t, err)
	assert.Equal(t, "from clipboard", patch)
}

func TestLoad_MasterFromStdin(t *testing.T) {
	patchPath := writeFile(t, t.TempDir(), "patch.js", "P")

	p := newTestProvider("master via stdin", true, "", nil)
	master, patch, err := p.Load(context.Background(), Stdin, patchPath)
	require.NoError(t, err)
	assert.Equal(t, "master via stdin", master)
	assert.Equal(t, "P", patch)
}

func TestLoad_MasterFromStdinPatchFromClipboard(t *testing.T) {
	p := newTestProvider("master via stdin", true, "from clipboard", nil)
	master, patch, err := p.Load(context.Background(), Stdin, "")
	require.NoError(t, err)
	assert.Equal(t, "master via stdin", master)
	assert.Equal(t, "from clipboard", patch)
}

func TestLoad_BothStdin(t *testing.T) {
	p := newTestProvider("x", true, "", nil)
	_, _, err := p.Load(context.Background(), Stdin, Stdin)
	assert.ErrorIs(t, err, ErrBothStdin)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	masterPath := writeFile(t, dir, "master.js", "M")

	t.Run("missing file", func(t *testing.T) {
		p := newTestProvider("", false, "", nil)
		_, _, err := p.Load(context.Background(), filepath.Join(dir, "nope.js"), masterPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "master")
	})

	t.Run("clipboard failure", func(t *testing.T) {
		clipErr := errors.New("no clipboard utility")
		p := newTestProvider("", false, "", clipErr)
		_, _, err := p.Load(context.Background(), masterPath, "")
		assert.ErrorIs(t, err, clipErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := newTestProvider("", false, "", nil)
		_, _, err := p.Load(ctx, masterPath, masterPath)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
