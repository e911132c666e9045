package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// File actions reported for written paths.
const (
	ActionCreate = "create"
	ActionModify = "modify"
)

// FindProjectRoot returns the root of the enclosing git repository, or the
// current working directory outside one.
func FindProjectRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err == nil {
		if root := strings.TrimSpace(string(output)); root != "" {
			return root, nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not get current working directory: %w", err)
	}
	return wd, nil
}

// WriteText writes content to path, creating parent directories as needed,
// and reports whether the file was created or modified. An existing file
// keeps its permissions.
func WriteText(path, content string) (string, error) {
	action, mode := ActionCreate, os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		action, mode = ActionModify, info.Mode().Perm()
	}

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return action, nil
}

// CopyFile copies src to dst, creating dst's directory.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// GetFileSHA256 returns the hex SHA-256 of a file's content.
func GetFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Relativize converts absolute paths to be relative to the current working
// directory for cleaner display. Paths that cannot be made relative are
// returned as-is.
func Relativize(paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	wd, err := os.Getwd()
	if err != nil {
		return paths
	}

	rel := make([]string, len(paths))
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			rel[i] = p
			continue
		}
		r, err := filepath.Rel(wd, p)
		if err != nil {
			rel[i] = p // Fallback to absolute path
		} else {
			rel[i] = r
		}
	}
	return rel
}
