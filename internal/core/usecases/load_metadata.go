package usecases

import (
	"context"
	"fmt"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// LoadMetadata implements the metadata loader (§4.1 C2): reading the
// typed resource documents a command needs — the infrastructure root, a
// project's environment instances, and the template/plugin definitions a
// project instantiates — validating each as it is loaded.
type LoadMetadata struct {
	projects ProjectStore
	packs    TemplatePackStore
}

// NewLoadMetadata creates a new LoadMetadata use case.
func NewLoadMetadata(projects ProjectStore, packs TemplatePackStore) *LoadMetadata {
	return &LoadMetadata{projects: projects, packs: packs}
}

// Infrastructure loads and validates the root Infrastructure document.
func (uc *LoadMetadata) Infrastructure(ctx context.Context, infraRoot string) (*entities.InfrastructureResource, error) {
	infra, err := uc.projects.LoadInfrastructure(ctx, infraRoot)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	if err := infra.ResourceHeader.Validate(); err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return infra, nil
}

// Environment loads and validates a single ProjectEnvironment document.
func (uc *LoadMetadata) Environment(ctx context.Context, infraRoot, project, environment string) (*entities.ProjectEnvironmentResource, error) {
	env, err := uc.projects.LoadEnvironment(ctx, infraRoot, project, environment)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	if err := env.ResourceHeader.Validate(); err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return env, nil
}

// Template loads and validates a Template document from within a pack.
func (uc *LoadMetadata) Template(ctx context.Context, packDir, templateName string) (*entities.TemplateResource, error) {
	tmpl, err := uc.packs.LoadTemplate(ctx, packDir, templateName)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return tmpl, nil
}

// Plugin loads and validates a Plugin document from within a pack.
func (uc *LoadMetadata) Plugin(ctx context.Context, packDir, pluginName string) (*entities.PluginResource, error) {
	plugin, err := uc.packs.LoadPlugin(ctx, packDir, pluginName)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	if err := plugin.ResourceHeader.Validate(); err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return plugin, nil
}
