// Package interpolation implements the two-pass template interpolation
// engine (§4.2 C5): a mustache-style pass on top of raymond, followed by a
// hand-rolled `${var:NAME}` / `${env:NAME}` substitution pass, plus the
// directory-tree template renderer (§4.3 C6).
package interpolation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/mailgun/raymond/v2"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure Engine implements both TemplateEngine and TemplateRenderer.
var (
	_ usecases.TemplateEngine   = (*Engine)(nil)
	_ usecases.TemplateRenderer = (*Engine)(nil)
)

const partialExt = ".hbs"

// Engine is the raymond-backed implementation of the core's TemplateEngine
// and TemplateRenderer ports. All disk access goes through the injected
// FileSystem port (§9), so Render and RegisterPartials work identically
// against a real or in-memory tree.
type Engine struct {
	fs         usecases.FileSystem
	registered map[string]bool
}

// New creates an interpolation engine with the five domain helpers
// registered: eq, contains, k8s_name, bool, secret.
func New(fs usecases.FileSystem) *Engine {
	helpersOnce.Do(registerHelpers)
	return &Engine{fs: fs, registered: make(map[string]bool)}
}

var helpersOnce sync.Once

func registerHelpers() {
	raymond.RegisterHelper("eq", func(a, b any) bool {
		return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
	})
	raymond.RegisterHelper("contains", func(haystack []any, needle any) bool {
		for _, item := range haystack {
			if fmt.Sprintf("%v", item) == fmt.Sprintf("%v", needle) {
				return true
			}
		}
		return false
	})
	raymond.RegisterHelper("k8s_name", func(name string) string {
		return toK8sName(name)
	})
	raymond.RegisterHelper("bool", func(v any) bool {
		switch t := v.(type) {
		case bool:
			return t
		case string:
			return t == "true" || t == "1" || t == "yes"
		default:
			return v != nil
		}
	})
	raymond.RegisterHelper("secret", func(name string) string {
		return "local.secret_" + sanitizeSecretName(name)
	})
}

// sanitizeSecretName keeps alphanumerics and replaces every other
// character with an underscore (§4.2), matching the `local.secret_<name>`
// reference the rendered IaC source expects.
func sanitizeSecretName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// k8sNameMaxLen is the Kubernetes/RFC-1123 DNS subdomain length limit.
const k8sNameMaxLen = 253

// toK8sName lowercases name, maps underscores to hyphens, and drops every
// character outside [a-z0-9.-] (§4.2) — it strips invalid characters
// rather than collapsing them into hyphens — then trims any leading or
// trailing non-alphanumeric character and truncates to 253 characters.
func toK8sName(name string) string {
	lowered := strings.ToLower(name)
	var sb strings.Builder
	for _, r := range lowered {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-':
			sb.WriteRune(r)
		case r == '_':
			sb.WriteByte('-')
		}
	}

	trimmed := strings.TrimFunc(sb.String(), isNotAlphanumeric)
	if len(trimmed) <= k8sNameMaxLen {
		return trimmed
	}
	return strings.TrimRightFunc(trimmed[:k8sNameMaxLen], isNotAlphanumeric)
}

func isNotAlphanumeric(r rune) bool {
	return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
}

// RenderString interpolates a single template string: mustache pass via
// raymond, then the `${var:NAME}`/`${env:NAME}` post-pass. An unresolved
// or complex-valued `${var:NAME}`/`${env:NAME}` reference is fatal for the
// file; every such token in the document is collected and returned
// together as entities.InterpolationErrors (§4.2, §7, §8) rather than
// failing on the first one found.
func (e *Engine) RenderString(ctx context.Context, source string, variables map[string]any) (string, error) {
	rendered, err := raymond.Render(source, variables)
	if err != nil {
		return "", &entities.InterpolationError{Template: source, Token: "{{...}}", Err: err}
	}

	expanded, errs := expandVarEnv(rendered, variables)
	if len(errs) > 0 {
		return "", entities.InterpolationErrors(errs)
	}
	return expanded, nil
}

var varEnvPattern = regexp.MustCompile(`\$\{(var|env):([A-Za-z0-9_.-]+)\}`)

// expandVarEnv resolves `${var:NAME}` against variables and `${env:NAME}`
// against the process environment. A `${var:NAME}` referencing a map or
// slice is rejected as a complex value (§4.2); a missing variable or
// unset environment variable is collected as an error rather than left
// in the output.
func expandVarEnv(source string, variables map[string]any) (string, []*entities.InterpolationError) {
	var errs []*entities.InterpolationError
	out := varEnvPattern.ReplaceAllStringFunc(source, func(match string) string {
		groups := varEnvPattern.FindStringSubmatch(match)
		kind, name := groups[1], groups[2]
		switch kind {
		case "var":
			v, ok := variables[name]
			if !ok {
				errs = append(errs, &entities.InterpolationError{
					Template: source, Token: match, Err: fmt.Errorf("variable %q not found", name),
				})
				return match
			}
			switch v.(type) {
			case map[string]any, []any:
				errs = append(errs, &entities.InterpolationError{
					Template: source, Token: match, Err: fmt.Errorf("variable %q is a complex value", name),
				})
				return match
			default:
				return fmt.Sprintf("%v", v)
			}
		case "env":
			v, ok := os.LookupEnv(name)
			if !ok {
				errs = append(errs, &entities.InterpolationError{
					Template: source, Token: match, Err: fmt.Errorf("environment variable %q not set", name),
				})
				return match
			}
			return v
		default:
			return match
		}
	})
	return out, errs
}

// RegisterPartials loads and registers .hbs partials from dir. A missing
// dir is not an error.
func (e *Engine) RegisterPartials(dir string) error {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("register partials %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != partialExt {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), partialExt)
		data, err := e.fs.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("register partial %s: %w", name, err)
		}
		if e.registered[name] {
			raymond.RemovePartial(name)
		}
		raymond.RegisterPartial(name, string(data))
		e.registered[name] = true
	}

	return nil
}
