package graphviz

import (
	"context"
	"testing"

	"github.com/pmp-io/pmp/internal/core/entities"
)

func TestRenderer_IsAvailable_UnknownBinary(t *testing.T) {
	r := &Renderer{}
	if r.IsAvailable() {
		t.Fatal("expected unavailable renderer with empty d2Path")
	}
}

func TestRenderer_RenderSVG_Unavailable(t *testing.T) {
	r := &Renderer{}
	_, err := r.RenderSVG(context.Background(), buildChainGraph(t))
	if err == nil {
		t.Fatal("expected error when d2 binary unavailable")
	}
}

func TestRenderer_RenderSVG_EmptyGraph(t *testing.T) {
	r := NewRenderer()
	if !r.IsAvailable() {
		t.Skip("d2 binary not installed in this environment")
	}
	_, err := r.RenderSVG(context.Background(), entities.NewDependencyGraph())
	if err == nil {
		t.Fatal("expected error for empty graph")
	}
}
