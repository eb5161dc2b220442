package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// installedPlugin pairs a loaded plugin with the directory name it was
// installed under, since LoadPlugin/Render both key off that name rather
// than the plugin's own declared metadata.name.
type installedPlugin struct {
	dirName  string
	resource *entities.PluginResource
}

// loadInstalledPlugins loads every plugin a template declares under
// spec.plugins.installed (§4.2, Glossary "Plugin": "an auxiliary
// parametric fragment composed into a Template at instantiation time").
func loadInstalledPlugins(ctx context.Context, w *wiring, packDir string, template *entities.TemplateResource) ([]installedPlugin, error) {
	plugins := make([]installedPlugin, 0, len(template.Spec.Plugins.Installed))
	for _, name := range template.Spec.Plugins.Installed {
		plugin, err := w.metadata.Plugin(ctx, packDir, name)
		if err != nil {
			return nil, fmt.Errorf("load plugin %q: %w", name, err)
		}
		plugins = append(plugins, installedPlugin{dirName: name, resource: plugin})
	}
	return plugins, nil
}

// resolvePluginInputs merges each installed plugin's declared inputs into
// resolved, in declaration order, the same way a template's own inputs
// are resolved (§4.3).
func resolvePluginInputs(plugins []installedPlugin, useDefaults bool, prompts usecases.UserPrompter, resolved map[string]any) error {
	for _, plugin := range plugins {
		if err := resolveInputs(plugin.resource.Spec.Inputs, useDefaults, prompts, resolved); err != nil {
			return fmt.Errorf("resolving plugin %q inputs: %w", plugin.dirName, err)
		}
	}
	return nil
}

// renderPlugins composes each installed plugin's `src/` tree into
// targetDir alongside the instantiated template's own rendered files,
// using the same resolved variable map so a plugin fragment can
// reference both its own and the template's inputs (§4.3 C6).
func renderPlugins(ctx context.Context, render *usecases.RenderTemplate, packDir string, plugins []installedPlugin, targetDir string, variables map[string]any, globalPartialsDir string) error {
	for _, plugin := range plugins {
		pluginDir := filepath.Join(packDir, "plugins", plugin.dirName)
		if _, err := render.Execute(ctx, packDir, pluginDir, targetDir, variables, globalPartialsDir); err != nil {
			return fmt.Errorf("render plugin %q: %w", plugin.dirName, err)
		}
	}
	return nil
}
