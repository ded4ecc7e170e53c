package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsafePath = errors.New("unsafe path")

const maxPathLength = 4096

// ExpandPath expands a leading "~/" and returns an absolute, cleaned path.
// Paths with null bytes, control characters or ".." components are rejected.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafePath)
	}
	if len(path) > maxPathLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrUnsafePath, maxPathLength)
	}
	for _, r := range path {
		if r == 0 || (r < 32 && r != '\t') {
			return "", fmt.Errorf("%w: control characters", ErrUnsafePath)
		}
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: directory traversal", ErrUnsafePath)
		}
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("%w: invalid tilde usage", ErrUnsafePath)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}
	return filepath.Clean(abs), nil
}

// PrepareFile validates path for a data file and creates its parent directory.
func PrepareFile(path string) (string, error) {
	p, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", p)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return p, nil
}

// PrepareDir validates path for a directory-backed store (bleve indexes) and
// creates its parent. The directory itself is left for the store to create.
func PrepareDir(path string) (string, error) {
	p, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return "", fmt.Errorf("path exists but is not a directory: %s", p)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return p, nil
}
