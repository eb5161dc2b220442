package usecases

import (
	"context"
	"testing"

	"github.com/pmp-io/pmp/internal/core/entities"
)

type fakeTemplatePackStore struct {
	templates map[string]*entities.TemplateResource
}

func (f *fakeTemplatePackStore) DiscoverPacks(ctx context.Context, searchPaths []string) ([]*entities.TemplatePackResource, error) {
	return nil, nil
}

func (f *fakeTemplatePackStore) LoadTemplate(ctx context.Context, packDir, templateName string) (*entities.TemplateResource, error) {
	tmpl, ok := f.templates[templateName]
	if !ok {
		return nil, &entities.NotFoundError{Entity: "Template", ID: templateName, Parent: packDir}
	}
	return tmpl, nil
}

func (f *fakeTemplatePackStore) LoadPlugin(ctx context.Context, packDir, pluginName string) (*entities.PluginResource, error) {
	return nil, nil
}

func (f *fakeTemplatePackStore) ListTemplates(ctx context.Context, packDir string) ([]string, error) {
	return nil, nil
}

func (f *fakeTemplatePackStore) ListPlugins(ctx context.Context, packDir string) ([]string, error) {
	return nil, nil
}

type fakeTemplateRenderer struct {
	rendered []string
}

func (f *fakeTemplateRenderer) Render(ctx context.Context, templateDir, targetDir string, variables map[string]any) ([]string, error) {
	f.rendered = append(f.rendered, targetDir)
	return nil, nil
}

type fakeExecutor struct {
	name    string
	calls   []string
	failing bool
}

func (f *fakeExecutor) Name() string       { return f.name }
func (f *fakeExecutor) IsAvailable() bool { return true }

func (f *fakeExecutor) call(op string) (ProcessResult, error) {
	f.calls = append(f.calls, op)
	if f.failing {
		return ProcessResult{ExitCode: 1}, nil
	}
	return ProcessResult{ExitCode: 0}, nil
}

func (f *fakeExecutor) Init(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error) {
	return f.call("init")
}
func (f *fakeExecutor) Plan(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error) {
	return f.call("plan")
}
func (f *fakeExecutor) Apply(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error) {
	return f.call("apply")
}
func (f *fakeExecutor) Destroy(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error) {
	return f.call("destroy")
}
func (f *fakeExecutor) Refresh(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error) {
	return f.call("refresh")
}
func (f *fakeExecutor) DetectDrift(ctx context.Context, envDir string) (bool, []entities.DriftChange, error) {
	return false, nil, nil
}

func TestOrchestrateGroup_Materialize(t *testing.T) {
	store := newFakeProjectStore()
	store.addEnv("network", "prod", entities.ProjectEnvironmentSpec{
		Executor: entities.ExecutorConfig{Name: "tofu"},
		Resource: entities.ProjectReference{APIVersion: "pmp.io/v1", Kind: "Network"},
	})

	packs := &fakeTemplatePackStore{templates: map[string]*entities.TemplateResource{
		"service": {
			ResourceHeader: entities.ResourceHeader{APIVersion: "pmp.io/v1", Kind: entities.KindTemplate, Metadata: entities.ResourceMetadata{Name: "service"}},
			Spec: entities.TemplateSpec{
				APIVersion: "pmp.io/v1",
				Kind:       "Service",
				Executor:   "tofu",
				Inputs: []entities.InputSpec{
					entities.NewStringInput("region", "", false, "us-east-1"),
				},
				Dependencies: []entities.TemplateDependency{
					{DependencyName: "network", Project: entities.ProjectReference{APIVersion: "pmp.io/v1", Kind: "Network", RemoteState: &entities.RemoteStateRef{DataSourceName: "net"}}},
				},
			},
		},
	}}
	renderer := &fakeTemplateRenderer{}

	parent := &entities.ProjectEnvironmentResource{
		Spec: entities.ProjectEnvironmentSpec{
			Projects: []entities.ChildProjectRef{
				{
					Name:           "api",
					Template:       "service",
					Environment:    "prod",
					UseAllDefaults: false,
					Inputs: map[string]entities.ChildInputValue{
						"region": {UseDefault: true},
					},
					ReferenceProjects: []entities.ChildReferenceProject{
						{Name: "network", Environment: "prod"},
					},
				},
			},
		},
	}

	uc := NewOrchestrateGroup(store, packs, renderer, nil, nil)
	results, err := uc.Materialize(context.Background(), "/infra", parent, "/infra/packs/core")
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if len(results) != 1 || !results[0].Created {
		t.Fatalf("unexpected results: %+v", results)
	}

	saved, err := store.LoadEnvironment(context.Background(), "/infra", "api", "prod")
	if err != nil {
		t.Fatalf("LoadEnvironment() error = %v", err)
	}
	if saved.Spec.Inputs["region"] != "us-east-1" {
		t.Errorf("expected default input applied, got %+v", saved.Spec.Inputs)
	}
	if len(saved.Spec.TemplateReferenceProjects) != 1 || saved.Spec.TemplateReferenceProjects[0].DataSourceName != "net" {
		t.Errorf("expected resolved reference project with data_source_name=net, got %+v", saved.Spec.TemplateReferenceProjects)
	}
	if len(renderer.rendered) != 1 {
		t.Errorf("expected one render call, got %v", renderer.rendered)
	}
}

func TestOrchestrateGroup_RunLifecycle_SkipsDependencyOnly(t *testing.T) {
	store := newFakeProjectStore()
	store.addEnv("cache", "prod", entities.ProjectEnvironmentSpec{Executor: entities.ExecutorConfig{Name: "none"}})

	executor := &fakeExecutor{name: "tofu"}
	hookRunner := &fakeHookRunner{exitCodes: map[string]int{}}

	parent := &entities.ProjectEnvironmentResource{
		Spec: entities.ProjectEnvironmentSpec{
			Projects: []entities.ChildProjectRef{{Name: "cache", Environment: "prod"}},
		},
	}

	uc := NewOrchestrateGroup(store, nil, nil, executor, hookRunner)
	results, err := uc.RunLifecycle(context.Background(), "/infra", parent, entities.HookSet{}, LifecycleApply)
	if err != nil {
		t.Fatalf("RunLifecycle() error = %v", err)
	}
	if len(results) != 1 || !results[0].Skipped {
		t.Errorf("expected dependency-only child to be skipped, got %+v", results)
	}
	if len(executor.calls) != 0 {
		t.Errorf("expected no executor calls for a dependency-only child, got %v", executor.calls)
	}
}

func TestOrchestrateGroup_RunLifecycle_HookCancelHalts(t *testing.T) {
	store := newFakeProjectStore()
	env := &entities.ProjectEnvironmentResource{
		ResourceHeader: entities.ResourceHeader{Metadata: entities.ResourceMetadata{Name: "api", EnvironmentName: "prod"}},
		Spec:           entities.ProjectEnvironmentSpec{Executor: entities.ExecutorConfig{Name: "tofu"}},
		Path:           "/infra/projects/api/environments/prod",
	}
	store.envs["api/prod"] = env
	store.projects["api"] = true

	executor := &fakeExecutor{name: "tofu"}
	hookRunner := &fakeHookRunner{exitCodes: map[string]int{"guard": cancelExitCode}}

	parent := &entities.ProjectEnvironmentResource{
		Spec: entities.ProjectEnvironmentSpec{
			Projects: []entities.ChildProjectRef{{Name: "api", Environment: "prod"}},
		},
	}
	infraHooks := entities.HookSet{PreApply: []string{"guard"}}

	uc := NewOrchestrateGroup(store, nil, nil, executor, hookRunner)
	results, err := uc.RunLifecycle(context.Background(), "/infra", parent, infraHooks, LifecycleApply)
	if err != nil {
		t.Fatalf("RunLifecycle() error = %v", err)
	}
	if len(results) != 1 || !results[0].Cancelled {
		t.Fatalf("expected cancelled result, got %+v", results)
	}
	if len(executor.calls) != 0 {
		t.Errorf("expected executor not to run after hook cancel, got %v", executor.calls)
	}
}

func TestOrchestrateGroup_RunLifecycle_DestroyReversesOrder(t *testing.T) {
	store := newFakeProjectStore()
	for _, name := range []string{"api", "db", "vpc"} {
		store.addEnv(name, "prod", entities.ProjectEnvironmentSpec{Executor: entities.ExecutorConfig{Name: "tofu"}})
	}

	executor := &fakeExecutor{name: "tofu"}
	hookRunner := &fakeHookRunner{exitCodes: map[string]int{}}

	parent := &entities.ProjectEnvironmentResource{
		Spec: entities.ProjectEnvironmentSpec{
			Projects: []entities.ChildProjectRef{
				{Name: "vpc", Environment: "prod"},
				{Name: "db", Environment: "prod"},
				{Name: "api", Environment: "prod"},
			},
		},
	}

	uc := NewOrchestrateGroup(store, nil, nil, executor, hookRunner)
	results, err := uc.RunLifecycle(context.Background(), "/infra", parent, entities.HookSet{}, LifecycleDestroy)
	if err != nil {
		t.Fatalf("RunLifecycle() error = %v", err)
	}
	if len(results) != 3 || results[0].Child.Name != "api" || results[2].Child.Name != "vpc" {
		t.Errorf("expected destroy order api,db,vpc, got %+v", results)
	}
}
