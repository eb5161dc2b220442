// Package filesystem provides file system implementations of the core's
// FileSystem port: a real adapter backed by os/io/fs, and an in-memory
// double for use-case tests that don't want to touch disk (§9).
package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure OSFileSystem implements usecases.FileSystem.
var _ usecases.FileSystem = (*OSFileSystem)(nil)

// OSFileSystem implements usecases.FileSystem over the real file system.
type OSFileSystem struct{}

// NewOSFileSystem creates a file system adapter backed by the host OS.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (fsys *OSFileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (fsys *OSFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (fsys *OSFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func (fsys *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return info, nil
}

func (fsys *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (fsys *OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", path, err)
	}
	return entries, nil
}

func (fsys *OSFileSystem) Walk(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

func (fsys *OSFileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
