package config

import (
	"os"
	"path/filepath"
)

const appName = "pmp"

// XDGPathResolver implements usecases.PathResolver using the XDG Base
// Directory Specification, with a PMP_CONFIG_HOME override taking
// precedence over XDG_CONFIG_HOME (§4.11).
type XDGPathResolver struct {
	configHome string
	dataHome   string
	cacheHome  string
}

// NewXDGPathResolver creates a path resolver with XDG-compliant directory
// resolution.
func NewXDGPathResolver() *XDGPathResolver {
	home, _ := os.UserHomeDir()

	return &XDGPathResolver{
		configHome: resolveDir(
			os.Getenv("PMP_CONFIG_HOME"),
			envWithSuffix("XDG_CONFIG_HOME", appName),
			filepath.Join(home, ".config", appName),
		),
		dataHome: resolveDir(
			envWithSuffix("XDG_DATA_HOME", appName),
			filepath.Join(home, ".local", "share", appName),
		),
		cacheHome: resolveDir(
			envWithSuffix("XDG_CACHE_HOME", appName),
			filepath.Join(home, ".cache", appName),
		),
	}
}

func (r *XDGPathResolver) ConfigDir() string { return r.configHome }
func (r *XDGPathResolver) DataDir() string   { return r.dataHome }
func (r *XDGPathResolver) CacheDir() string  { return r.cacheHome }

// ConfigFile returns the path to the global pmp.toml.
func (r *XDGPathResolver) ConfigFile() string {
	return filepath.Join(r.configHome, "pmp.toml")
}

// TemplatePacksDir returns the template-packs directory under the XDG data
// directory. The template-pack search path built by the CLI does not
// include it.
func (r *XDGPathResolver) TemplatePacksDir() string {
	return filepath.Join(r.dataHome, "template-packs")
}

// PoliciesDir returns the policies directory under the XDG data directory.
// The policy search path built by the CLI does not include it.
func (r *XDGPathResolver) PoliciesDir() string {
	return filepath.Join(r.dataHome, "policies")
}

// PartialsDir returns the partials directory under the XDG config
// directory. Template rendering does not register partials from it.
func (r *XDGPathResolver) PartialsDir() string {
	return filepath.Join(r.configHome, "partials")
}

// EnsureDir creates the directory if it doesn't exist (lazy creation on first write).
func (r *XDGPathResolver) EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// resolveDir returns the first non-empty path from the candidates.
func resolveDir(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// envWithSuffix returns the env var value with appName appended, or empty string if not set.
func envWithSuffix(envVar, suffix string) string {
	val := os.Getenv(envVar)
	if val == "" {
		return ""
	}
	return filepath.Join(val, suffix)
}
