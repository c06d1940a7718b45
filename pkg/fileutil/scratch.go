package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scratch is a private temporary directory for intermediate artifacts.
// Close removes it with everything inside.
type Scratch struct {
	dir string
}

// NewScratch creates a new scratch directory under the system temp dir.
func NewScratch(pattern string) (*Scratch, error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the directory path.
func (s *Scratch) Dir() string {
	return s.dir
}

// Path returns the path of name inside the scratch directory.
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteFile writes data to name inside the scratch directory and returns
// the full path.
func (s *Scratch) WriteFile(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Close removes the scratch directory. It is safe to call more than once.
func (s *Scratch) Close() error {
	if s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}
