package usecases

import (
	"context"
	"fmt"
	"path/filepath"
)

// RenderTemplate implements the template renderer's orchestration (§4.3
// C6): registering partials (global before pack, so pack partials shadow
// global ones on name collision) before delegating the file-tree walk and
// render to the TemplateRenderer port.
type RenderTemplate struct {
	engine   TemplateEngine
	renderer TemplateRenderer
}

// NewRenderTemplate creates a new RenderTemplate use case.
func NewRenderTemplate(engine TemplateEngine, renderer TemplateRenderer) *RenderTemplate {
	return &RenderTemplate{engine: engine, renderer: renderer}
}

// Execute registers partials from globalPartialsDir and then packDir's
// `partials/` subdirectory (pack registrations run last and therefore
// win), then renders templateDir's src/ tree into targetDir.
func (uc *RenderTemplate) Execute(ctx context.Context, packDir, templateDir, targetDir string, variables map[string]any, globalPartialsDir string) ([]string, error) {
	if globalPartialsDir != "" {
		if err := uc.engine.RegisterPartials(globalPartialsDir); err != nil {
			return nil, fmt.Errorf("render template: registering global partials: %w", err)
		}
	}
	packPartialsDir := filepath.Join(packDir, "partials")
	if err := uc.engine.RegisterPartials(packPartialsDir); err != nil {
		return nil, fmt.Errorf("render template: registering pack partials: %w", err)
	}

	outputs, err := uc.renderer.Render(ctx, templateDir, targetDir, variables)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return outputs, nil
}
