package usecases

import (
	"context"
	"fmt"
)

// InterpolateStructured implements the structured-JSON interpolation pass
// of §4.2: recursing through maps and slices, running the engine's
// mustache-plus-post-pass render over every string leaf, used when
// rewriting a child project's configured inputs.
type InterpolateStructured struct {
	engine TemplateEngine
}

// NewInterpolateStructured creates a new InterpolateStructured use case.
func NewInterpolateStructured(engine TemplateEngine) *InterpolateStructured {
	return &InterpolateStructured{engine: engine}
}

// Execute interpolates every string found within value (recursively
// through maps and slices), leaving non-string leaves untouched.
func (uc *InterpolateStructured) Execute(ctx context.Context, value any, variables map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		rendered, err := uc.engine.RenderString(ctx, v, variables)
		if err != nil {
			return nil, fmt.Errorf("interpolate structured: %w", err)
		}
		return rendered, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			rendered, err := uc.Execute(ctx, item, variables)
			if err != nil {
				return nil, err
			}
			out[key] = rendered
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			rendered, err := uc.Execute(ctx, item, variables)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	default:
		return value, nil
	}
}
