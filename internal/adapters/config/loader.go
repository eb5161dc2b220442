// Package config provides configuration loading from pmp.toml files.
// It implements the ConfigLoader interface for reading and writing CLI configuration.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// Loader implements the ConfigLoader interface for TOML configuration files.
type Loader struct {
	globalConfigPath string // Path to global config (XDG config dir / pmp.toml)
}

// NewLoader creates a new config loader rooted at the given global config
// file path, typically resolved via a PathResolver's ConfigFile().
func NewLoader(globalConfigPath string) *Loader {
	return &Loader{globalConfigPath: globalConfigPath}
}

// tomlConfig mirrors entities.CLIConfig's shape for TOML (un)marshalling.
type tomlConfig struct {
	Project  projectSection    `toml:"project"`
	Paths    pathsSection      `toml:"paths"`
	Executor executorSection   `toml:"executor"`
	Aliases  map[string]string `toml:"aliases"`
}

type projectSection struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type pathsSection struct {
	TemplatePacksPaths []string `toml:"template_packs_paths"`
	PoliciesPaths      []string `toml:"policies_paths"`
}

type executorSection struct {
	Name   string         `toml:"name"`
	Config map[string]any `toml:"config"`
}

// LoadGlobalConfig reads the global pmp.toml (if present) on top of the
// built-in defaults.
func (l *Loader) LoadGlobalConfig(ctx context.Context) (*entities.CLIConfig, error) {
	config := entities.DefaultCLIConfig()

	if l.globalConfigPath == "" {
		return config, nil
	}
	if _, err := os.Stat(l.globalConfigPath); err != nil {
		return config, nil
	}
	if err := l.loadFromFile(l.globalConfigPath, config); err != nil {
		return nil, fmt.Errorf("load global config: %w", err)
	}
	return config, nil
}

// LoadProjectConfig reads the global config first, then layers the
// project-local `pmp.toml` (found at infraRoot) on top, project-local
// settings taking precedence.
func (l *Loader) LoadProjectConfig(ctx context.Context, infraRoot string) (*entities.CLIConfig, error) {
	config, err := l.LoadGlobalConfig(ctx)
	if err != nil {
		return nil, err
	}

	projectConfigPath := filepath.Join(infraRoot, "pmp.toml")
	if _, err := os.Stat(projectConfigPath); err == nil {
		if err := l.loadFromFile(projectConfigPath, config); err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
	}

	return config, nil
}

// loadFromFile loads configuration from a TOML file into config, applying
// only the fields the file actually sets.
func (l *Loader) loadFromFile(path string, config *entities.CLIConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var tc tomlConfig
	if err := toml.Unmarshal(data, &tc); err != nil {
		return fmt.Errorf("parse TOML: %w", err)
	}

	if tc.Project.Name != "" {
		config.Project.Name = tc.Project.Name
	}
	if tc.Project.Description != "" {
		config.Project.Description = tc.Project.Description
	}

	if len(tc.Paths.TemplatePacksPaths) > 0 {
		config.Paths.TemplatePacksPaths = tc.Paths.TemplatePacksPaths
	}
	if len(tc.Paths.PoliciesPaths) > 0 {
		config.Paths.PoliciesPaths = tc.Paths.PoliciesPaths
	}

	if tc.Executor.Name != "" {
		config.Executor.Name = tc.Executor.Name
	}
	if tc.Executor.Config != nil {
		config.Executor.Config = tc.Executor.Config
	}

	if tc.Aliases != nil {
		config.Aliases = tc.Aliases
	}

	return nil
}

// SaveGlobalConfig persists config to the global pmp.toml path.
func (l *Loader) SaveGlobalConfig(ctx context.Context, config *entities.CLIConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if l.globalConfigPath == "" {
		return fmt.Errorf("no global config path resolved")
	}

	tc := tomlConfig{
		Project: projectSection{
			Name:        config.Project.Name,
			Description: config.Project.Description,
		},
		Paths: pathsSection{
			TemplatePacksPaths: config.Paths.TemplatePacksPaths,
			PoliciesPaths:      config.Paths.PoliciesPaths,
		},
		Executor: executorSection{
			Name:   config.Executor.Name,
			Config: config.Executor.Config,
		},
		Aliases: config.Aliases,
	}

	if err := os.MkdirAll(filepath.Dir(l.globalConfigPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(l.globalConfigPath)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	f.WriteString("# pmp global configuration\n")
	f.WriteString("# See https://github.com/pmp-io/pmp for documentation\n\n")

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(tc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return nil
}
