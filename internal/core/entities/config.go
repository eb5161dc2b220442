package entities

// CLIConfig is the parsed, merged configuration consumed by the CLI
// layer: the global XDG `pmp.toml`, overridden by the project-local
// `pmp.toml`, then by `PMP_*` environment variables, then by flags (highest
// precedence last).
type CLIConfig struct {
	Project       ProjectConfigSection   `toml:"project"`
	Paths         PathsConfigSection     `toml:"paths"`
	Executor      ExecutorConfigSection  `toml:"executor"`
	Aliases       map[string]string      `toml:"aliases"`
}

// ProjectConfigSection holds the [project] table.
type ProjectConfigSection struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// PathsConfigSection holds the [paths] table: additional search paths for
// template packs and policies, layered on top of the built-in XDG
// defaults.
type PathsConfigSection struct {
	TemplatePacksPaths []string `toml:"template_packs_paths"`
	PoliciesPaths      []string `toml:"policies_paths"`
}

// ExecutorConfigSection holds the [executor] table: the default
// provisioner name and its free-form config block.
type ExecutorConfigSection struct {
	Name   string         `toml:"name"`
	Config map[string]any `toml:"config"`
}

// DefaultCLIConfig returns the built-in defaults applied before any
// config file or environment variable is consulted.
func DefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Executor: ExecutorConfigSection{Name: "tofu"},
	}
}
