package resolver

import (
	"os"
	"path/filepath"
)

// FileSystem abstracts the file-system probing the resolver performs
// for import path normalization, so tests can inject a fake.
type FileSystem interface {
	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Abs returns the absolute form of path.
	Abs(path string) (string, error)
}

// OSFileSystem is the FileSystem backed by the real file system.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}
