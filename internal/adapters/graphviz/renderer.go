// Package graphviz implements the graph-visualisation port (§4.5) by
// generating D2 diagram source from a dependency graph and shelling out
// to the d2 binary, modeled on the teacher's D2 renderer adapter.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure Renderer implements usecases.GraphVisualizer.
var _ usecases.GraphVisualizer = (*Renderer)(nil)

// Renderer implements usecases.GraphVisualizer by shelling out to the d2
// CLI to compile generated D2 source into SVG.
type Renderer struct {
	d2Path string
}

// NewRenderer creates a diagram renderer, resolving the d2 binary from
// PATH if present.
func NewRenderer() *Renderer {
	path, _ := exec.LookPath("d2")
	return &Renderer{d2Path: path}
}

// IsAvailable reports whether the d2 binary was found in PATH.
func (r *Renderer) IsAvailable() bool {
	return r.d2Path != ""
}

// RenderSVG generates D2 source for the graph and compiles it to SVG.
func (r *Renderer) RenderSVG(ctx context.Context, graph *entities.DependencyGraph) ([]byte, error) {
	if !r.IsAvailable() {
		return nil, fmt.Errorf("d2 binary not found in PATH")
	}

	source := generateD2(graph)
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("graph has no nodes to render")
	}

	tmp, err := os.CreateTemp("", "pmp-graph-*.svg")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(ctx, r.d2Path, "--layout", "elk", "--theme", "0", "-", tmpPath)
	cmd.Stdin = strings.NewReader(source)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("d2 compilation failed: %w: %s", err, stderr.String())
	}

	return os.ReadFile(tmpPath)
}
