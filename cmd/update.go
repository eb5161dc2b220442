package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// UpdateCommand re-renders an existing project environment against its
// template, carrying forward its previously configured inputs as the
// prompt defaults (§4.3 C6).
type UpdateCommand struct {
	project     string
	environment string
	packName    string
	template    string
	useDefaults bool
}

// NewUpdateCommand creates a new update command.
func NewUpdateCommand(project, environment, packName, template string, useDefaults bool) *UpdateCommand {
	return &UpdateCommand{
		project:     project,
		environment: environment,
		packName:    packName,
		template:    template,
		useDefaults: useDefaults,
	}
}

// Execute runs the update command.
func (c *UpdateCommand) Execute(ctx context.Context) error {
	w := newWiring()
	root, err := infraRoot()
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	existing, err := w.metadata.Environment(ctx, root, c.project, c.environment)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	searchPaths := w.templatePackSearchPaths(ctx, root)
	packs, err := w.packs.DiscoverPacks(ctx, searchPaths)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	packDir, ok := findPackDir(packs, c.packName)
	if !ok {
		return fmt.Errorf("update: template pack %q not found", c.packName)
	}

	template, err := w.metadata.Template(ctx, packDir, c.template)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	prompts := newPrompts()
	inputs, err := resolveTemplateInputsWithCurrent(template, c.environment, existing.Spec.Inputs, c.useDefaults, prompts)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	plugins, err := loadInstalledPlugins(ctx, w, packDir, template)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if err := resolvePluginInputs(plugins, c.useDefaults, prompts, inputs); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	render := usecases.NewRenderTemplate(w.engine, w.engine)
	templateDir := filepath.Join(packDir, "templates", c.template)
	globalPartials := filepath.Join(root, ".pmp", "partials")
	if _, err := render.Execute(ctx, packDir, templateDir, existing.Path, inputs, globalPartials); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if err := renderPlugins(ctx, render, packDir, plugins, existing.Path, inputs, globalPartials); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	existing.Spec.Inputs = inputs
	if err := w.projects.SaveEnvironment(ctx, existing); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	w.progress.ReportSuccess(fmt.Sprintf("updated %s:%s", c.project, c.environment))
	return nil
}

// resolveTemplateInputsWithCurrent is resolveTemplateInputs, but prompt
// defaults fall back to an input's currently configured value before its
// environment-scoped or template-declared default.
func resolveTemplateInputsWithCurrent(template *entities.TemplateResource, environment string, current map[string]any, useDefaults bool, prompts usecases.UserPrompter) (map[string]any, error) {
	inputs := template.InputsForEnvironment(environment)
	for i, in := range inputs {
		if currentValue, ok := current[in.Name]; ok {
			inputs[i].Default = currentValue
		}
	}

	resolved := make(map[string]any, len(inputs))
	if err := resolveInputs(inputs, useDefaults, prompts, resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}
