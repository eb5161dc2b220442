package usecases

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// DiscoverTemplatePacks implements template-pack discovery (§4.1 C3):
// resolving the prioritised search path and delegating the on-disk scan to
// the TemplatePackStore port.
type DiscoverTemplatePacks struct {
	store TemplatePackStore
}

// NewDiscoverTemplatePacks creates a new DiscoverTemplatePacks use case.
func NewDiscoverTemplatePacks(store TemplatePackStore) *DiscoverTemplatePacks {
	return &DiscoverTemplatePacks{store: store}
}

// SearchPathOptions carries the inputs that determine template-pack search
// order, in the precedence spec.md §4.1 specifies: explicit flag, then
// environment variable, then cwd-relative, then home-relative.
type SearchPathOptions struct {
	// ExplicitPaths is a colon-separated --template-packs-paths flag value.
	ExplicitPaths string
	// EnvPaths is a colon-separated $PMP_TEMPLATE_PACKS_PATHS value.
	EnvPaths string
	Cwd      string
	Home     string
}

// BuildSearchPaths resolves the prioritised, colon-separated search path
// list for template-pack discovery (§4.1). Earlier entries take priority.
func BuildSearchPaths(opts SearchPathOptions) []string {
	var paths []string
	paths = append(paths, splitColonList(opts.ExplicitPaths)...)
	paths = append(paths, splitColonList(opts.EnvPaths)...)
	if opts.Cwd != "" {
		paths = append(paths, filepath.Join(opts.Cwd, ".pmp", "template-packs"))
	}
	if opts.Home != "" {
		paths = append(paths, filepath.Join(opts.Home, ".pmp", "template-packs"))
	}
	return paths
}

func splitColonList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ":")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Execute discovers every template pack reachable along searchPaths.
// Earlier paths shadow later ones on name collision (delegated to the
// store); a single pack's own loading error is non-fatal (§4.1).
func (uc *DiscoverTemplatePacks) Execute(ctx context.Context, searchPaths []string) ([]*entities.TemplatePackResource, error) {
	return uc.store.DiscoverPacks(ctx, searchPaths)
}
