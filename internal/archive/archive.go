// Package archive keeps timestamped copies of files before weave
// overwrites them.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sokinpui/weave/internal/fs"
)

const (
	// DefaultDir is the archive directory name under the project root.
	DefaultDir = "archive"

	backupExt       = ".bak"
	timestampLayout = "20060102T150405.000000000Z"
)

// Manager writes backups into one archive directory.
type Manager struct {
	dir string
	now func() time.Time
}

// New creates a Manager whose directory is dirName under root. An absolute
// dirName is used as-is; an empty one means DefaultDir.
func New(root, dirName string) (*Manager, error) {
	if dirName == "" {
		dirName = DefaultDir
	}
	dir := dirName
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dirName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create archive directory: %w", err)
	}
	return &Manager{dir: dir, now: time.Now}, nil
}

// Dir returns the archive directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Backup copies path into the archive and returns the backup's path.
// A missing file needs no backup and yields "". If the newest backup of
// the same file already has identical content, that backup is returned
// instead of writing a new one.
func (m *Manager) Backup(path string) (string, error) {
	hash, err := fs.GetFileSHA256(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("could not read %s for backup: %w", path, err)
	}

	base := filepath.Base(path)
	if latest := m.Latest(base); latest != "" {
		if latestHash, err := fs.GetFileSHA256(latest); err == nil && latestHash == hash {
			return latest, nil
		}
	}

	name := fmt.Sprintf("%s.%s%s", base, m.now().UTC().Format(timestampLayout), backupExt)
	dst := filepath.Join(m.dir, name)
	if err := fs.CopyFile(path, dst); err != nil {
		return "", fmt.Errorf("could not archive %s: %w", path, err)
	}
	return dst, nil
}

// Backups lists the backups of files named base, oldest first.
func (m *Manager) Backups(base string) []string {
	matches, err := filepath.Glob(filepath.Join(m.dir, globEscape(base)+".*"+backupExt))
	if err != nil {
		return nil
	}
	// The fixed-width UTC timestamp sorts lexically.
	sort.Strings(matches)
	return matches
}

// Latest returns the newest backup of files named base, or "".
func (m *Manager) Latest(base string) string {
	backups := m.Backups(base)
	if len(backups) == 0 {
		return ""
	}
	return backups[len(backups)-1]
}

func globEscape(s string) string {
	var out []rune
	for _, r := range s {
		switch r {
		case '*', '?', '[', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
