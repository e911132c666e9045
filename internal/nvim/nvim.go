package nvim

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/neovim/go-client/nvim"
)

// BufferChange is the full new content of one buffer.
type BufferChange struct {
	Path    string
	Content string
}

// Manager handles the connection and interaction with a Neovim instance.
type Manager struct {
	nvim          *nvim.Nvim
	isSelfStarted bool
	cmd           *exec.Cmd
	socketPath    string
}

// New creates a new Neovim manager, connecting to an existing instance
// or starting a new headless one.
func New() (*Manager, error) {
	// Try to connect to a running instance first.
	if addr := os.Getenv("NVIM_LISTEN_ADDRESS"); addr != "" {
		v, err := nvim.Dial(addr)
		if err == nil {
			return &Manager{nvim: v}, nil
		}
	}

	tmpDir, err := os.MkdirTemp("", "weave-nvim-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir for nvim: %w", err)
	}
	socketPath := filepath.Join(tmpDir, "nvim.sock")

	cmd := exec.Command("nvim", "--headless", "--clean", "--listen", socketPath)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to start headless nvim: %w. Is 'nvim' in your PATH?", err)
	}

	// Wait for the socket file to appear.
	for i := 0; i < 20; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	v, err := nvim.Dial(socketPath)
	if err != nil {
		cmd.Process.Kill()
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to connect to headless nvim: %w", err)
	}

	m := &Manager{
		nvim:          v,
		isSelfStarted: true,
		cmd:           cmd,
		socketPath:    socketPath,
	}
	m.configureTempInstance()
	return m, nil
}

func (m *Manager) configureTempInstance() {
	b := m.nvim.NewBatch()
	b.Command("set noswapfile")
	b.Command("set hidden")
	_ = b.Execute()
}

// Close disconnects from Neovim and cleans up if it was self-started.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
	if m.isSelfStarted && m.cmd != nil && m.cmd.Process != nil {
		if err := m.cmd.Process.Kill(); err == nil {
			m.cmd.Wait()
			os.RemoveAll(filepath.Dir(m.socketPath))
		}
	}
}

// processSequentially runs processFn over items in order, reporting progress.
func processSequentially[T any](
	items []T,
	processFn func(item T) (path string, success bool),
	progressCb func(int),
) (succeeded, failed []string) {
	for i, item := range items {
		path, success := processFn(item)
		if success {
			succeeded = append(succeeded, path)
		} else {
			failed = append(failed, path)
		}
		if progressCb != nil {
			progressCb(i + 1)
		}
	}
	return succeeded, failed
}

// LoadBuffers replaces the content of each change's buffer.
func (m *Manager) LoadBuffers(changes []BufferChange, progressCb func(int)) (updated, failed []string) {
	processFn := func(change BufferChange) (string, bool) {
		return change.Path, m.LoadBuffer(change.Path, change.Content) == nil
	}
	return processSequentially(changes, processFn, progressCb)
}

// LoadBuffer opens filePath in Neovim and replaces its lines with content.
func (m *Manager) LoadBuffer(filePath, content string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}

	b := m.nvim.NewBatch()
	b.Command(fmt.Sprintf("edit %s", escapePath(absPath)))
	b.SetBufferLines(0, 0, -1, true, SplitLines(content))
	if err := b.Execute(); err != nil {
		return fmt.Errorf("failed to update buffer %s: %w", absPath, err)
	}
	return nil
}

// SaveAllBuffers writes all modified buffers to disk.
func (m *Manager) SaveAllBuffers() error {
	if err := m.nvim.Command("wa!"); err != nil {
		return fmt.Errorf("failed to save buffers: %w", err)
	}
	return nil
}

// SplitLines converts text to buffer lines. A trailing newline does not
// produce an extra empty line.
func SplitLines(content string) [][]byte {
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	out := make([][]byte, len(lines))
	for i, s := range lines {
		out[i] = []byte(s)
	}
	return out
}

func escapePath(p string) string {
	return strings.NewReplacer(" ", `\ `, "%", `\%`, "#", `\#`).Replace(p)
}
