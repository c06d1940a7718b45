// Package fileutil provides file system helpers for a build: source path
// resolution, output path derivation and the scratch directory that holds
// intermediate artifacts.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// noExtSuffix is appended to the executable name when the source file has
// no extension, so the output never overwrites the source.
const noExtSuffix = ".out"

// FindFileCaseInsensitive searches for a file with the given name in the specified directory.
// The search is case-insensitive, which is useful for cross-platform compatibility.
//
// Example:
//
//	path, err := FindFileCaseInsensitive("/path/to/dir", "Hello.TRUST")
//	// Will find "hello.trust", "HELLO.TRUST", "Hello.trust", etc.
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	// Normalize the search filename to lowercase for comparison
	searchName := strings.ToLower(filename)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == searchName {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s): %w", filename, dir, fs.ErrNotExist)
}

// ResolvePath returns path unchanged when it exists. Otherwise it looks for
// a file of the same name, ignoring case, in the same directory.
func ResolvePath(path string) (string, error) {
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	return FindFileCaseInsensitive(filepath.Dir(path), filepath.Base(path))
}

// OutputPath derives the executable path from the source path by removing
// the extension: "dir/hello.trust" becomes "dir/hello".
func OutputPath(source string) string {
	ext := filepath.Ext(source)
	if ext == "" || ext == filepath.Base(source) {
		return source + noExtSuffix
	}
	return strings.TrimSuffix(source, ext)
}
