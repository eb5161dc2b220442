package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure MemoryFileSystem implements usecases.FileSystem.
var _ usecases.FileSystem = (*MemoryFileSystem)(nil)

// MemoryFileSystem is an in-memory usecases.FileSystem double for
// exercising use cases without touching disk (§9). Paths are treated as
// opaque slash-joined strings; directories are implicit in file paths and
// may additionally be declared via MkdirAll.
type MemoryFileSystem struct {
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemoryFileSystem creates an empty in-memory file system.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true},
	}
}

func (m *MemoryFileSystem) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}

func (m *MemoryFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	m.ensureParents(filepath.Dir(path))
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[path] = cp
	return nil
}

func (m *MemoryFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	m.ensureParents(path)
	m.dirs[path] = true
	return nil
}

func (m *MemoryFileSystem) ensureParents(path string) {
	for dir := path; dir != "" && dir != "." && dir != "/"; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
		if filepath.Dir(dir) == dir {
			break
		}
	}
}

func (m *MemoryFileSystem) Stat(path string) (fs.FileInfo, error) {
	if data, ok := m.files[path]; ok {
		return memFileInfo{name: filepath.Base(path), size: int64(len(data)), isDir: false}, nil
	}
	if m.dirs[path] {
		return memFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	return nil, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
}

func (m *MemoryFileSystem) Exists(path string) bool {
	if _, ok := m.files[path]; ok {
		return true
	}
	return m.dirs[path]
}

func (m *MemoryFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	if !m.dirs[path] && path != "" {
		return nil, fmt.Errorf("readdir %s: %w", path, fs.ErrNotExist)
	}

	seen := make(map[string]fs.DirEntry)
	prefix := strings.TrimSuffix(path, "/") + "/"
	for file, data := range m.files {
		if rel, ok := directChild(prefix, file); ok {
			seen[rel] = memDirEntry{memFileInfo{name: rel, size: int64(len(data)), isDir: false}}
		}
	}
	for dir := range m.dirs {
		if rel, ok := directChild(prefix, dir); ok {
			seen[rel] = memDirEntry{memFileInfo{name: rel, isDir: true}}
		}
	}

	entries := make([]fs.DirEntry, 0, len(seen))
	for _, e := range seen {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// directChild reports whether full is a direct child of the directory
// identified by prefix (which must end in "/"), returning its base name.
func directChild(prefix, full string) (string, bool) {
	if !strings.HasPrefix(full+"/", prefix) || full+"/" == prefix {
		return "", false
	}
	rest := strings.TrimPrefix(full, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

func (m *MemoryFileSystem) Walk(root string, fn fs.WalkDirFunc) error {
	var paths []string
	for p := range m.files {
		if strings.HasPrefix(p, root) {
			paths = append(paths, p)
		}
	}
	for p := range m.dirs {
		if strings.HasPrefix(p, root) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		info, err := m.Stat(p)
		if err != nil {
			return err
		}
		if err := fn(p, memDirEntry{info.(memFileInfo)}, nil); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryFileSystem) Remove(path string) error {
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if m.dirs[path] {
		delete(m.dirs, path)
		return nil
	}
	return fmt.Errorf("remove %s: %w", path, fs.ErrNotExist)
}

// memFileInfo is a minimal fs.FileInfo over an in-memory entry.
type memFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) IsDir() bool        { return i.isDir }
func (i memFileInfo) Sys() any           { return nil }

// memDirEntry adapts memFileInfo to fs.DirEntry.
type memDirEntry struct {
	info memFileInfo
}

func (e memDirEntry) Name() string               { return e.info.Name() }
func (e memDirEntry) IsDir() bool                 { return e.info.IsDir() }
func (e memDirEntry) Type() fs.FileMode           { return e.info.Mode().Type() }
func (e memDirEntry) Info() (fs.FileInfo, error)  { return e.info, nil }
