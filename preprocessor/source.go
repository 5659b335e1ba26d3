package preprocessor

import (
	"os"
	"path/filepath"
)

// FileSource abstracts the read-only file system access of the preprocessor.
type FileSource interface {
	// Canonical returns the absolute, symlink-free path of an existing file.
	Canonical(path string) (string, error)
	// ReadFile returns the content of a canonical path.
	ReadFile(path string) ([]byte, error)
}

// OSFileSource reads from the local file system.
type OSFileSource struct{}

var _ FileSource = OSFileSource{}

// Canonical implements FileSource
func (OSFileSource) Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// ReadFile implements FileSource
func (OSFileSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
