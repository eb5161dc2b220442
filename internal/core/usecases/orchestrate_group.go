package usecases

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// LifecycleCommand is one of the three operations the project-group
// orchestrator can dispatch to a child project's executor (§4.7).
type LifecycleCommand string

const (
	LifecyclePreview LifecycleCommand = "preview"
	LifecycleApply   LifecycleCommand = "apply"
	LifecycleDestroy LifecycleCommand = "destroy"
)

// OrchestrateGroupOption configures an OrchestrateGroup use case.
type OrchestrateGroupOption func(*OrchestrateGroup)

// WithOrchestratorLogger attaches a logger used to report hook
// cancellations as warnings rather than fatal errors.
func WithOrchestratorLogger(logger Logger) OrchestrateGroupOption {
	return func(o *OrchestrateGroup) { o.logger = logger }
}

// OrchestrateGroup implements the project-group orchestrator (§4.7 C10):
// materialising a parent environment's declared child projects and
// dispatching lifecycle commands across them in dependency order.
type OrchestrateGroup struct {
	projects ProjectStore
	packs    TemplatePackStore
	renderer TemplateRenderer
	executor Executor
	hooks    *RunHooks
	logger   Logger
}

// NewOrchestrateGroup creates a new OrchestrateGroup use case.
func NewOrchestrateGroup(projects ProjectStore, packs TemplatePackStore, renderer TemplateRenderer, executor Executor, hookRunner HookRunner, opts ...OrchestrateGroupOption) *OrchestrateGroup {
	o := &OrchestrateGroup{
		projects: projects,
		packs:    packs,
		renderer: renderer,
		executor: executor,
		hooks:    NewRunHooks(hookRunner),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ChildResult reports the outcome of materialising or running the
// lifecycle command for one child project.
type ChildResult struct {
	Child     entities.ChildProjectRef
	Created   bool
	Skipped   bool
	Cancelled bool
}

// Materialize implements the materialisation phase (§4.7 steps 1-5): for
// each declared child, probe existence, resolve concrete inputs and
// reference projects, then create or update its environment document and
// render its template.
func (uc *OrchestrateGroup) Materialize(ctx context.Context, infraRoot string, parent *entities.ProjectEnvironmentResource, packDir string) ([]ChildResult, error) {
	var results []ChildResult

	for _, child := range parent.Spec.Projects {
		_, exists, err := uc.projects.FindProjectDir(ctx, infraRoot, child.Name)
		if err != nil {
			return nil, fmt.Errorf("orchestrate group: probing child %q: %w", child.Name, err)
		}

		template, err := uc.packs.LoadTemplate(ctx, packDir, child.Template)
		if err != nil {
			return nil, fmt.Errorf("orchestrate group: loading template %q for child %q: %w", child.Template, child.Name, err)
		}

		inputs := buildChildInputs(child, template)

		refs, err := uc.resolveReferenceProjects(ctx, infraRoot, child, template)
		if err != nil {
			return nil, fmt.Errorf("orchestrate group: resolving reference projects for child %q: %w", child.Name, err)
		}

		projectDir := filepath.Join(infraRoot, "projects", child.Name)
		envDir := filepath.Join(projectDir, "environments", child.Environment)

		if uc.renderer != nil {
			templateDir := filepath.Join(packDir, "templates", child.Template)
			if _, err := uc.renderer.Render(ctx, templateDir, envDir, inputs); err != nil {
				return nil, fmt.Errorf("orchestrate group: rendering child %q: %w", child.Name, err)
			}
		}

		env := &entities.ProjectEnvironmentResource{
			ResourceHeader: entities.ResourceHeader{
				APIVersion: template.Spec.APIVersion,
				Kind:       entities.KindProjectEnvironment,
				Metadata:   entities.ResourceMetadata{Name: child.Name, EnvironmentName: child.Environment},
			},
			Spec: entities.ProjectEnvironmentSpec{
				Resource:                  entities.ProjectReference{APIVersion: template.Spec.APIVersion, Kind: template.Spec.Kind},
				Executor:                  entities.ExecutorConfig{Name: template.Spec.Executor},
				Inputs:                    inputs,
				TemplateReferenceProjects: refs,
			},
			Path: envDir,
		}

		if err := uc.projects.SaveEnvironment(ctx, env); err != nil {
			return nil, fmt.Errorf("orchestrate group: saving child %q: %w", child.Name, err)
		}

		results = append(results, ChildResult{Child: child, Created: !exists})
	}

	return results, nil
}

// buildChildInputs resolves a child's concrete input map against its
// template's declared inputs (§4.7 step 3).
func buildChildInputs(child entities.ChildProjectRef, template *entities.TemplateResource) map[string]any {
	if child.UseAllDefaults {
		return map[string]any{}
	}
	inputs := make(map[string]any, len(child.Inputs))
	for name, configured := range child.Inputs {
		if configured.UseDefault {
			if in, ok := template.InputByName(name); ok {
				if def, ok := in.DefaultValue(); ok {
					inputs[name] = def
				}
			}
			continue
		}
		inputs[name] = configured.Value
	}
	return inputs
}

// resolveReferenceProjects matches each configured reference project
// against the child template's declared dependencies by (apiVersion,
// kind) to obtain a canonical data_source_name (§4.7 step 4).
func (uc *OrchestrateGroup) resolveReferenceProjects(ctx context.Context, infraRoot string, child entities.ChildProjectRef, template *entities.TemplateResource) ([]entities.TemplateReferenceProject, error) {
	var resolved []entities.TemplateReferenceProject

	for i, ref := range child.ReferenceProjects {
		_, exists, err := uc.projects.FindProjectDir(ctx, infraRoot, ref.Name)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &entities.NotFoundError{Entity: "Project", ID: ref.Name, Parent: infraRoot}
		}

		refEnv, err := uc.projects.LoadEnvironment(ctx, infraRoot, ref.Name, ref.Environment)
		if err != nil {
			return nil, err
		}

		dataSourceName := fmt.Sprintf("ref_%d", i)
		if dep, ok := template.DependencyByKind(refEnv.Spec.Resource.APIVersion, refEnv.Spec.Resource.Kind); ok {
			if dep.Project.RemoteState != nil && dep.Project.RemoteState.DataSourceName != "" {
				dataSourceName = dep.Project.RemoteState.DataSourceName
			} else {
				dataSourceName = dep.DependencyName
			}
		}

		resolved = append(resolved, entities.TemplateReferenceProject{
			APIVersion:     refEnv.Spec.Resource.APIVersion,
			Kind:           refEnv.Spec.Resource.Kind,
			Name:           ref.Name,
			Environment:    ref.Environment,
			DataSourceName: dataSourceName,
		})
	}

	return resolved, nil
}

// RunLifecycle implements the lifecycle phase (§4.7): iterating the
// parent's declared children in order (reversed for destroy), skipping
// dependency-only children, and running merged hooks around the executor
// call for each.
func (uc *OrchestrateGroup) RunLifecycle(ctx context.Context, infraRoot string, parent *entities.ProjectEnvironmentResource, infraHooks entities.HookSet, command LifecycleCommand) ([]ChildResult, error) {
	children := parent.Spec.Projects
	if command == LifecycleDestroy {
		children = reverseChildren(children)
	}

	var results []ChildResult
	for _, child := range children {
		result, err := uc.runChild(ctx, infraRoot, child, infraHooks, command)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (uc *OrchestrateGroup) runChild(ctx context.Context, infraRoot string, child entities.ChildProjectRef, infraHooks entities.HookSet, command LifecycleCommand) (ChildResult, error) {
	env, err := uc.projects.LoadEnvironment(ctx, infraRoot, child.Name, child.Environment)
	if err != nil {
		return ChildResult{Child: child}, fmt.Errorf("orchestrate group: loading child %q: %w", child.Name, err)
	}

	if env.IsDependencyOnly() {
		return ChildResult{Child: child, Skipped: true}, nil
	}

	prePhase, postPhase, runExecutor := phasesFor(command)
	effectiveHooks := infraHooks.Merge(env.Spec.Hooks)

	if err := uc.hooks.Execute(ctx, env.Path, prePhase, effectiveHooks); err != nil {
		var cancelErr *entities.HookCancelError
		if errors.As(err, &cancelErr) {
			if uc.logger != nil {
				uc.logger.Warn("hook cancelled operation", "project", child.Name, "environment", child.Environment, "command", cancelErr.Command)
			}
			return ChildResult{Child: child, Cancelled: true}, nil
		}
		return ChildResult{Child: child}, err
	}

	if _, err := runExecutor(ctx, uc.executor, env.Path); err != nil {
		return ChildResult{Child: child}, fmt.Errorf("orchestrate group: executing %s for child %q: %w", command, child.Name, err)
	}

	if err := uc.hooks.Execute(ctx, env.Path, postPhase, effectiveHooks); err != nil {
		var cancelErr *entities.HookCancelError
		if errors.As(err, &cancelErr) {
			if uc.logger != nil {
				uc.logger.Warn("hook cancelled operation", "project", child.Name, "environment", child.Environment, "command", cancelErr.Command)
			}
			return ChildResult{Child: child, Cancelled: true}, nil
		}
		return ChildResult{Child: child}, err
	}

	return ChildResult{Child: child}, nil
}

func phasesFor(command LifecycleCommand) (pre, post entities.HookPhase, run func(ctx context.Context, executor Executor, envDir string) (ProcessResult, error)) {
	switch command {
	case LifecyclePreview:
		return entities.HookPrePreview, entities.HookPostPreview, func(ctx context.Context, executor Executor, envDir string) (ProcessResult, error) {
			return executor.Plan(ctx, envDir, nil)
		}
	case LifecycleDestroy:
		return entities.HookPreDestroy, entities.HookPostDestroy, func(ctx context.Context, executor Executor, envDir string) (ProcessResult, error) {
			return executor.Destroy(ctx, envDir, nil)
		}
	default:
		return entities.HookPreApply, entities.HookPostApply, func(ctx context.Context, executor Executor, envDir string) (ProcessResult, error) {
			return executor.Apply(ctx, envDir, nil)
		}
	}
}

func reverseChildren(children []entities.ChildProjectRef) []entities.ChildProjectRef {
	reversed := make([]entities.ChildProjectRef, len(children))
	for i, c := range children {
		reversed[len(children)-1-i] = c
	}
	return reversed
}
