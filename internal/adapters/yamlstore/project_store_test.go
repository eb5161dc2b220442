package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmp-io/pmp/internal/core/entities"
)

func writeProject(t *testing.T, infraRoot, dirName, name string) string {
	t.Helper()
	dir := filepath.Join(infraRoot, dirName)
	res := entities.ProjectResource{
		ResourceHeader: entities.ResourceHeader{
			APIVersion: "pmp/v1",
			Kind:       entities.KindProject,
			Metadata:   entities.ResourceMetadata{Name: name},
		},
	}
	if err := writeYAML(filepath.Join(dir, projectFile), &res); err != nil {
		t.Fatalf("writeProject: %v", err)
	}
	return dir
}

func writeEnvironment(t *testing.T, projectDir, envName string, spec entities.ProjectEnvironmentSpec) {
	t.Helper()
	envDir := filepath.Join(projectDir, environmentsDir, envName)
	res := entities.ProjectEnvironmentResource{
		ResourceHeader: entities.ResourceHeader{
			APIVersion: "pmp/v1",
			Kind:       entities.KindProjectEnvironment,
			Metadata:   entities.ResourceMetadata{Name: envName},
		},
		Spec: spec,
	}
	if err := writeYAML(filepath.Join(envDir, environmentFile), &res); err != nil {
		t.Fatalf("writeEnvironment: %v", err)
	}
}

func TestProjectStore_FindProjectDir(t *testing.T) {
	infraRoot := t.TempDir()
	writeProject(t, infraRoot, "net", "network")

	store := NewProjectStore()
	dir, ok, err := store.FindProjectDir(context.Background(), infraRoot, "network")
	if err != nil {
		t.Fatalf("FindProjectDir() error = %v", err)
	}
	if !ok {
		t.Fatal("expected project to be found")
	}
	if dir != filepath.Join(infraRoot, "net") {
		t.Errorf("dir = %q, want %q", dir, filepath.Join(infraRoot, "net"))
	}
}

func TestProjectStore_FindProjectDir_NotFound(t *testing.T) {
	infraRoot := t.TempDir()
	store := NewProjectStore()

	_, ok, err := store.FindProjectDir(context.Background(), infraRoot, "ghost")
	if err != nil {
		t.Fatalf("FindProjectDir() error = %v", err)
	}
	if ok {
		t.Fatal("expected project not to be found")
	}
}

func TestProjectStore_SaveAndLoadEnvironment(t *testing.T) {
	infraRoot := t.TempDir()
	projectDir := writeProject(t, infraRoot, "net", "network")

	store := NewProjectStore()
	env := &entities.ProjectEnvironmentResource{
		ResourceHeader: entities.ResourceHeader{
			APIVersion: "pmp/v1",
			Kind:       entities.KindProjectEnvironment,
			Metadata:   entities.ResourceMetadata{Name: "prod"},
		},
		Spec: entities.ProjectEnvironmentSpec{
			Executor: entities.ExecutorConfig{Name: "tofu"},
		},
		Path: filepath.Join(projectDir, environmentsDir, "prod"),
	}

	if err := store.SaveEnvironment(context.Background(), env); err != nil {
		t.Fatalf("SaveEnvironment() error = %v", err)
	}

	loaded, err := store.LoadEnvironment(context.Background(), infraRoot, "network", "prod")
	if err != nil {
		t.Fatalf("LoadEnvironment() error = %v", err)
	}
	if loaded.Spec.Executor.Name != "tofu" {
		t.Errorf("Executor.Name = %q, want %q", loaded.Spec.Executor.Name, "tofu")
	}
}

func TestProjectStore_LoadEnvironment_NotFound(t *testing.T) {
	infraRoot := t.TempDir()
	writeProject(t, infraRoot, "net", "network")

	store := NewProjectStore()
	_, err := store.LoadEnvironment(context.Background(), infraRoot, "network", "missing")
	if err == nil {
		t.Fatal("expected error for missing environment")
	}
	var notFound *entities.NotFoundError
	if !asNotFound(err, &notFound) {
		t.Errorf("expected *entities.NotFoundError, got %T: %v", err, err)
	}
}

func TestProjectStore_ListProjectsAndEnvironments(t *testing.T) {
	infraRoot := t.TempDir()
	netDir := writeProject(t, infraRoot, "net", "network")
	writeEnvironment(t, netDir, "prod", entities.ProjectEnvironmentSpec{})
	writeEnvironment(t, netDir, "staging", entities.ProjectEnvironmentSpec{})

	store := NewProjectStore()
	projects, err := store.ListProjects(context.Background(), infraRoot)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) != 1 || projects[0].Metadata.Name != "network" {
		t.Fatalf("unexpected projects: %+v", projects)
	}

	envs, err := store.ListEnvironments(context.Background(), infraRoot, "network")
	if err != nil {
		t.Fatalf("ListEnvironments() error = %v", err)
	}
	if len(envs) != 2 {
		t.Fatalf("unexpected environments: %v", envs)
	}
}

func TestProjectStore_LoadInfrastructure(t *testing.T) {
	infraRoot := t.TempDir()
	res := entities.InfrastructureResource{
		ResourceHeader: entities.ResourceHeader{
			APIVersion: "pmp/v1",
			Kind:       entities.KindInfrastructure,
			Metadata:   entities.ResourceMetadata{Name: "payments"},
		},
		Spec: entities.InfrastructureSpec{
			Environments: map[string]entities.EnvironmentDecl{"prod": {Name: "prod"}},
		},
	}
	if err := writeYAML(filepath.Join(infraRoot, infrastructureFile), &res); err != nil {
		t.Fatalf("write infrastructure: %v", err)
	}

	store := NewProjectStore()
	loaded, err := store.LoadInfrastructure(context.Background(), infraRoot)
	if err != nil {
		t.Fatalf("LoadInfrastructure() error = %v", err)
	}
	if !loaded.HasEnvironment("prod") {
		t.Error("expected prod environment to be declared")
	}
	if loaded.Path != infraRoot {
		t.Errorf("Path = %q, want %q", loaded.Path, infraRoot)
	}
}

// asNotFound is a small errors.As wrapper kept local to avoid importing
// "errors" into every test for a single assertion.
func asNotFound(err error, target **entities.NotFoundError) bool {
	nf, ok := err.(*entities.NotFoundError)
	if ok {
		*target = nf
	}
	return ok
}

func TestTemplatePackStore_DiscoverAndList(t *testing.T) {
	packsRoot := t.TempDir()
	packDir := filepath.Join(packsRoot, "aws-pack")

	pack := entities.TemplatePackResource{
		ResourceHeader: entities.ResourceHeader{
			APIVersion: "pmp/v1",
			Kind:       entities.KindTemplatePack,
			Metadata:   entities.ResourceMetadata{Name: "aws-pack"},
		},
	}
	if err := writeYAML(filepath.Join(packDir, templatePackFile), &pack); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	template := entities.TemplateResource{
		ResourceHeader: entities.ResourceHeader{
			APIVersion: "pmp/v1",
			Kind:       entities.KindTemplate,
			Metadata:   entities.ResourceMetadata{Name: "vpc"},
		},
		Spec: entities.TemplateSpec{Executor: "tofu"},
	}
	if err := writeYAML(filepath.Join(packDir, templatesDir, "vpc", templateFile), &template); err != nil {
		t.Fatalf("write template: %v", err)
	}

	store := NewTemplatePackStore()
	packs, err := store.DiscoverPacks(context.Background(), []string{packsRoot})
	if err != nil {
		t.Fatalf("DiscoverPacks() error = %v", err)
	}
	if len(packs) != 1 || packs[0].Metadata.Name != "aws-pack" {
		t.Fatalf("unexpected packs: %+v", packs)
	}

	names, err := store.ListTemplates(context.Background(), packDir)
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if len(names) != 1 || names[0] != "vpc" {
		t.Fatalf("unexpected templates: %v", names)
	}

	loaded, err := store.LoadTemplate(context.Background(), packDir, "vpc")
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if loaded.Spec.Executor != "tofu" {
		t.Errorf("Executor = %q, want %q", loaded.Spec.Executor, "tofu")
	}
}

func TestTemplatePackStore_DiscoverPacks_EarlierPathShadowsLater(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	for _, root := range []string{first, second} {
		pack := entities.TemplatePackResource{
			ResourceHeader: entities.ResourceHeader{
				APIVersion: "pmp/v1",
				Kind:       entities.KindTemplatePack,
				Metadata:   entities.ResourceMetadata{Name: "shared-pack", Description: root},
			},
		}
		if err := writeYAML(filepath.Join(root, "shared-pack", templatePackFile), &pack); err != nil {
			t.Fatalf("write pack: %v", err)
		}
	}

	store := NewTemplatePackStore()
	packs, err := store.DiscoverPacks(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("DiscoverPacks() error = %v", err)
	}
	if len(packs) != 1 {
		t.Fatalf("expected shadowing to dedupe to 1 pack, got %d", len(packs))
	}
	if packs[0].Metadata.Description != first {
		t.Errorf("expected the earlier path's pack to win, got description %q", packs[0].Metadata.Description)
	}
}

func TestProjectStore_ListEnvironments_NoEnvironmentsDir(t *testing.T) {
	infraRoot := t.TempDir()
	writeProject(t, infraRoot, "net", "network")

	store := NewProjectStore()
	envs, err := store.ListEnvironments(context.Background(), infraRoot, "network")
	if err != nil {
		t.Fatalf("ListEnvironments() error = %v", err)
	}
	if len(envs) != 0 {
		t.Errorf("expected no environments, got %v", envs)
	}
	if _, err := os.Stat(filepath.Join(infraRoot, "net", environmentsDir)); !os.IsNotExist(err) {
		t.Fatalf("test setup invariant broken: environments dir unexpectedly exists")
	}
}
