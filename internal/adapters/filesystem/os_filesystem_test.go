package filesystem

import (
	"path/filepath"
	"testing"
)

func TestOSFileSystem_WriteReadExists(t *testing.T) {
	fsys := NewOSFileSystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.yaml")

	if fsys.Exists(path) {
		t.Fatal("expected file not to exist yet")
	}

	if err := fsys.WriteFile(path, []byte("kind: Project\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if !fsys.Exists(path) {
		t.Fatal("expected file to exist after write")
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "kind: Project\n" {
		t.Errorf("ReadFile() = %q", data)
	}
}

func TestOSFileSystem_ReadDirAndRemove(t *testing.T) {
	fsys := NewOSFileSystem()
	dir := t.TempDir()
	if err := fsys.WriteFile(filepath.Join(dir, "a.yaml"), []byte("a"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := fsys.WriteFile(filepath.Join(dir, "b.yaml"), []byte("b"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if err := fsys.Remove(filepath.Join(dir, "a.yaml")); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if fsys.Exists(filepath.Join(dir, "a.yaml")) {
		t.Error("expected a.yaml to be removed")
	}
}

func TestOSFileSystem_ReadFile_Missing(t *testing.T) {
	fsys := NewOSFileSystem()
	if _, err := fsys.ReadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
