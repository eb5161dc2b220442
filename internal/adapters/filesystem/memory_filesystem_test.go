package filesystem

import (
	"errors"
	"io/fs"
	"testing"
)

func TestMemoryFileSystem_WriteReadExists(t *testing.T) {
	fsys := NewMemoryFileSystem()

	if fsys.Exists("/infra/net/.pmp.project.yaml") {
		t.Fatal("expected file not to exist yet")
	}

	if err := fsys.WriteFile("/infra/net/.pmp.project.yaml", []byte("kind: Project\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if !fsys.Exists("/infra/net/.pmp.project.yaml") {
		t.Fatal("expected file to exist after write")
	}
	if !fsys.Exists("/infra/net") {
		t.Error("expected parent directory to be implicitly created")
	}

	data, err := fsys.ReadFile("/infra/net/.pmp.project.yaml")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "kind: Project\n" {
		t.Errorf("ReadFile() = %q", data)
	}
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	fsys := NewMemoryFileSystem()
	_ = fsys.WriteFile("/infra/net/.pmp.project.yaml", []byte("a"), 0o644)
	_ = fsys.WriteFile("/infra/db/.pmp.project.yaml", []byte("b"), 0o644)

	entries, err := fsys.ReadDir("/infra")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if entries[0].Name() != "db" || entries[1].Name() != "net" {
		t.Errorf("expected lexical order [db, net], got [%s, %s]", entries[0].Name(), entries[1].Name())
	}
	if !entries[0].IsDir() {
		t.Error("expected db to be a directory entry")
	}
}

func TestMemoryFileSystem_RemoveMissing(t *testing.T) {
	fsys := NewMemoryFileSystem()
	err := fsys.Remove("/missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}
