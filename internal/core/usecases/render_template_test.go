package usecases

import (
	"context"
	"testing"
)

func TestRenderTemplate_RegistersGlobalThenPackPartials(t *testing.T) {
	engine := &fakeTemplateEngine{}
	renderer := &fakeTemplateRenderer{}
	uc := NewRenderTemplate(engine, renderer)

	_, err := uc.Execute(context.Background(), "/pack/service", "/pack/service/templates/main", "/out/api/prod", map[string]any{}, "/home/.pmp/partials")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(engine.partials) != 2 || engine.partials[0] != "/home/.pmp/partials" || engine.partials[1] != "/pack/service/partials" {
		t.Errorf("unexpected partial registration order: %v", engine.partials)
	}
	if len(renderer.rendered) != 1 || renderer.rendered[0] != "/out/api/prod" {
		t.Errorf("expected render to be delegated with the target dir, got %v", renderer.rendered)
	}
}
