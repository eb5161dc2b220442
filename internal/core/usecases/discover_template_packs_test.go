package usecases

import (
	"context"
	"testing"

	"github.com/pmp-io/pmp/internal/core/entities"
)

func TestBuildSearchPaths_Precedence(t *testing.T) {
	paths := BuildSearchPaths(SearchPathOptions{
		ExplicitPaths: "/explicit/a:/explicit/b",
		EnvPaths:      "/env/a",
		Cwd:           "/cwd",
		Home:          "/home/user",
	})
	want := []string{"/explicit/a", "/explicit/b", "/env/a", "/cwd/.pmp/template-packs", "/home/user/.pmp/template-packs"}
	if len(paths) != len(want) {
		t.Fatalf("BuildSearchPaths() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestBuildSearchPaths_NoExplicitOrEnv(t *testing.T) {
	paths := BuildSearchPaths(SearchPathOptions{Cwd: "/cwd", Home: "/home/user"})
	want := []string{"/cwd/.pmp/template-packs", "/home/user/.pmp/template-packs"}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("BuildSearchPaths() = %v, want %v", paths, want)
	}
}

func TestDiscoverTemplatePacks_Execute(t *testing.T) {
	packs := &fakeTemplatePackStore{templates: map[string]*entities.TemplateResource{}}
	uc := NewDiscoverTemplatePacks(packs)
	if _, err := uc.Execute(context.Background(), []string{"/some/path"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}
