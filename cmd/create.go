package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// CreateCommand materialises a new project environment from a template
// pack's template (§4.2 C4, §4.3 C6): resolving its declared inputs
// interactively where not supplied by flags, rendering its file tree,
// and persisting the project and environment documents.
type CreateCommand struct {
	project     string
	environment string
	packName    string
	template    string
	useDefaults bool
}

// NewCreateCommand creates a new create command.
func NewCreateCommand(project, environment, packName, template string, useDefaults bool) *CreateCommand {
	return &CreateCommand{
		project:     project,
		environment: environment,
		packName:    packName,
		template:    template,
		useDefaults: useDefaults,
	}
}

// Execute runs the create command.
func (c *CreateCommand) Execute(ctx context.Context) error {
	w := newWiring()
	root, err := infraRoot()
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	searchPaths := w.templatePackSearchPaths(ctx, root)
	packs, err := w.packs.DiscoverPacks(ctx, searchPaths)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	packDir, ok := findPackDir(packs, c.packName)
	if !ok {
		return fmt.Errorf("create: template pack %q not found", c.packName)
	}

	template, err := w.metadata.Template(ctx, packDir, c.template)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	prompts := newPrompts()
	inputs, err := resolveTemplateInputs(template, c.environment, c.useDefaults, prompts)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	plugins, err := loadInstalledPlugins(ctx, w, packDir, template)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := resolvePluginInputs(plugins, c.useDefaults, prompts, inputs); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	projectDir := filepath.Join(root, "projects", c.project)
	envDir := filepath.Join(projectDir, "environments", c.environment)

	render := usecases.NewRenderTemplate(w.engine, w.engine)
	templateDir := filepath.Join(packDir, "templates", c.template)
	globalPartials := filepath.Join(root, ".pmp", "partials")
	if _, err := render.Execute(ctx, packDir, templateDir, envDir, inputs, globalPartials); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := renderPlugins(ctx, render, packDir, plugins, envDir, inputs, globalPartials); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	project := &entities.ProjectResource{
		ResourceHeader: entities.ResourceHeader{
			APIVersion: "pmp/v1",
			Kind:       entities.KindProject,
			Metadata:   entities.ResourceMetadata{Name: c.project},
		},
	}
	if err := w.projects.SaveProject(ctx, projectDir, project); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	env := &entities.ProjectEnvironmentResource{
		ResourceHeader: entities.ResourceHeader{
			APIVersion: template.Spec.APIVersion,
			Kind:       entities.KindProjectEnvironment,
			Metadata:   entities.ResourceMetadata{Name: c.project, EnvironmentName: c.environment},
		},
		Spec: entities.ProjectEnvironmentSpec{
			Resource: entities.ProjectReference{APIVersion: template.Spec.APIVersion, Kind: template.Spec.Kind},
			Executor: entities.ExecutorConfig{Name: template.Spec.Executor},
			Inputs:   inputs,
		},
		Path: envDir,
	}

	if err := w.projects.SaveEnvironment(ctx, env); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	w.progress.ReportSuccess(fmt.Sprintf("created %s:%s", c.project, c.environment))
	return nil
}

func findPackDir(packs []*entities.TemplatePackResource, name string) (string, bool) {
	for _, pack := range packs {
		if pack.Metadata.Name == name {
			return pack.Path, true
		}
	}
	return "", false
}

// resolveTemplateInputs resolves a concrete input map for a template in
// a given environment: the template's declared inputs with that
// environment's default overrides applied (§3, §9), use declared
// defaults outright when useDefaults is set, otherwise prompt for each
// visible input (falling back to its default on empty input).
func resolveTemplateInputs(template *entities.TemplateResource, environment string, useDefaults bool, prompts usecases.UserPrompter) (map[string]any, error) {
	inputs := make(map[string]any, len(template.Spec.Inputs))
	if err := resolveInputs(template.InputsForEnvironment(environment), useDefaults, prompts, inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

// resolveInputs resolves declared inputs into resolved, in declaration
// order, so a later input's show_if (§3) can reference an earlier one's
// already-resolved value. An input whose show_if conditions don't hold
// is skipped entirely — neither prompted for nor defaulted.
func resolveInputs(inputs []entities.InputSpec, useDefaults bool, prompts usecases.UserPrompter, resolved map[string]any) error {
	for _, in := range inputs {
		if !in.IsVisible(resolved) {
			continue
		}

		def, hasDefault := in.DefaultValue()

		if useDefaults {
			if hasDefault {
				resolved[in.Name] = def
			}
			continue
		}

		value, err := promptForInput(in, def, prompts)
		if err != nil {
			return fmt.Errorf("resolving input %q: %w", in.Name, err)
		}
		resolved[in.Name] = value
	}
	return nil
}

func promptForInput(in entities.InputSpec, def any, prompts usecases.UserPrompter) (any, error) {
	label := in.Name
	if in.Description != "" {
		label = fmt.Sprintf("%s (%s)", in.Name, in.Description)
	}

	switch in.Kind {
	case entities.InputBoolean:
		defBool, _ := def.(bool)
		return prompts.PromptBool(label, defBool)
	case entities.InputSelect:
		defStr, _ := def.(string)
		return prompts.PromptSelect(label, in.Options, defStr)
	default:
		defStr := fmt.Sprintf("%v", def)
		if def == nil {
			defStr = ""
		}
		return prompts.PromptString(label, defStr)
	}
}
