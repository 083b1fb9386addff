package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxPathLength = 4096

// PathHandler validates the on-disk locations folio writes to: the
// database file, the search index directory and the log file.
type PathHandler struct {
	home string
}

func NewPathHandler() *PathHandler {
	home, _ := os.UserHomeDir()
	return &PathHandler{home: home}
}

// Clean expands a leading ~/, makes the path absolute and rejects
// control characters and parent-directory components.
func (ph *PathHandler) Clean(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > maxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r < 32 {
			return "", fmt.Errorf("path contains control characters")
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if ph.home == "" {
			return "", fmt.Errorf("cannot determine home directory")
		}
		path = filepath.Join(ph.home, strings.TrimPrefix(path, "~"))
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage in %q", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}
	return abs, nil
}

// File validates a path that must be a regular file if it exists.
// The parent directory is created when missing.
func (ph *PathHandler) File(path string) (string, error) {
	clean, err := ph.Clean(path)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(clean); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", clean)
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}
	return clean, nil
}

// Directory validates a path that must be a directory if it exists.
func (ph *PathHandler) Directory(path string) (string, error) {
	clean, err := ph.Clean(path)
	if err != nil {
		return "", err
	}
	info, statErr := os.Stat(clean)
	switch {
	case statErr == nil && !info.IsDir():
		return "", fmt.Errorf("path exists but is not a directory: %s", clean)
	case statErr != nil && !os.IsNotExist(statErr):
		return "", fmt.Errorf("checking directory: %w", statErr)
	}
	return clean, nil
}
