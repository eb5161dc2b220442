package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmp-io/pmp/internal/adapters/cli"
	"github.com/pmp-io/pmp/internal/adapters/config"
	"github.com/pmp-io/pmp/internal/adapters/encoding"
	"github.com/pmp-io/pmp/internal/adapters/executor"
	"github.com/pmp-io/pmp/internal/adapters/filesystem"
	"github.com/pmp-io/pmp/internal/adapters/graphviz"
	"github.com/pmp-io/pmp/internal/adapters/interpolation"
	"github.com/pmp-io/pmp/internal/adapters/logging"
	"github.com/pmp-io/pmp/internal/adapters/policy"
	"github.com/pmp-io/pmp/internal/adapters/vcs"
	"github.com/pmp-io/pmp/internal/adapters/yamlstore"
	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// wiring holds one instance of every adapter a CLI command might need,
// built once per invocation from the merged configuration.
type wiring struct {
	paths        *config.XDGPathResolver
	configLoader *config.Loader
	projects     *yamlstore.ProjectStore
	packs        *yamlstore.TemplatePackStore
	fs           *filesystem.OSFileSystem
	engine       *interpolation.Engine
	policies     *policy.Evaluator
	changes      *vcs.GitSource
	graphs       *graphviz.Renderer
	progress     *cli.ProgressReporter
	report       *cli.ReportFormatter
	hooks        *executor.ShellHookRunner
	metadata     *usecases.LoadMetadata
	logger       *logging.Logger
	encoder      *encoding.Encoder
}

func newWiring() *wiring {
	paths := config.NewXDGPathResolver()
	projects := yamlstore.NewProjectStore()
	packs := yamlstore.NewTemplatePackStore()
	fs := filesystem.NewOSFileSystem()
	level := logging.LevelInfo
	if Verbose {
		level = logging.LevelDebug
	}
	return &wiring{
		paths:        paths,
		configLoader: config.NewLoader(paths.ConfigFile()),
		projects:     projects,
		packs:        packs,
		fs:           fs,
		engine:       interpolation.New(fs),
		policies:     policy.New(),
		changes:      vcs.NewGitSource(),
		graphs:       graphviz.NewRenderer(),
		progress:     cli.NewProgressReporter(),
		report:       cli.NewReportFormatter(),
		hooks:        executor.NewShellHookRunner(),
		metadata:     usecases.NewLoadMetadata(projects, packs),
		logger:       logging.New(level),
		encoder:      encoding.NewEncoder(),
	}
}

// printFormatted renders value via humanPrint for the default "text"
// format, or through the OutputEncoder for "json"/"toon" (§4.13, §6),
// writing the encoded record to stdout.
func (w *wiring) printFormatted(format string, value any, humanPrint func()) error {
	switch format {
	case "", "text":
		humanPrint()
		return nil
	case "json":
		data, err := w.encoder.EncodeJSON(value)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Println(string(data))
		return nil
	case "toon":
		data, err := w.encoder.EncodeTOON(value)
		if err != nil {
			return fmt.Errorf("encode toon: %w", err)
		}
		fmt.Println(string(data))
		return nil
	default:
		return fmt.Errorf("unknown --format %q (want text, json, or toon)", format)
	}
}

// resolveExecutor returns the provisioner adapter bound to a declared
// executor name ("tofu", "terraform", "none").
func resolveExecutor(name string) usecases.Executor {
	switch name {
	case "terraform":
		return executor.NewTerraform()
	case "none":
		return executor.NewNone()
	default:
		return executor.NewOpenTofu()
	}
}

// infraRoot resolves the infrastructure root from the --project flag,
// defaulting to the current working directory.
func infraRoot() (string, error) {
	if ProjectRoot == "" || ProjectRoot == "." {
		return os.Getwd()
	}
	return filepath.Abs(ProjectRoot)
}

// templatePackSearchPaths builds the prioritised template-pack search path
// from the --template-packs-paths flag, then the merged project/global
// pmp.toml config paths, then $PMP_TEMPLATE_PACKS_PATHS, cwd, and the
// user's home directory (§4.1, §4.11).
func (w *wiring) templatePackSearchPaths(ctx context.Context, cwd string) []string {
	home, _ := os.UserHomeDir()
	explicit := TemplatePacksPaths
	if configured := w.configuredPaths(ctx, cwd).TemplatePacksPaths; len(configured) > 0 {
		explicit = explicit + ":" + joinColon(configured)
	}
	return usecases.BuildSearchPaths(usecases.SearchPathOptions{
		ExplicitPaths: explicit,
		EnvPaths:      os.Getenv("PMP_TEMPLATE_PACKS_PATHS"),
		Cwd:           cwd,
		Home:          home,
	})
}

// newPrompts creates a stdin-backed interactive prompter for scaffolding
// commands.
func newPrompts() *cli.Prompts {
	return cli.NewPrompts(bufio.NewReader(os.Stdin))
}

// policySearchPaths builds the prioritised policy search path: the
// infrastructure root's ./policies directory, the user's
// ~/.pmp/policies directory, any policies_paths declared in pmp.toml, then
// any custom paths supplied via flag (§4.10, §4.11).
func (w *wiring) policySearchPaths(ctx context.Context, infraRoot string, custom []string) []string {
	home, _ := os.UserHomeDir()
	paths := []string{filepath.Join(infraRoot, "policies")}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".pmp", "policies"))
	}
	paths = append(paths, w.configuredPaths(ctx, infraRoot).PoliciesPaths...)
	return append(paths, custom...)
}

// configuredPaths merges the project-local over the global pmp.toml
// config's [paths] table via the ConfigLoader port, project config
// winning per §4.11's precedence. Errors are treated as "no config",
// since a missing or malformed pmp.toml is not fatal to path resolution.
func (w *wiring) configuredPaths(ctx context.Context, infraRoot string) entities.PathsConfigSection {
	merged := entities.PathsConfigSection{}
	if global, err := w.configLoader.LoadGlobalConfig(ctx); err == nil && global != nil {
		merged.TemplatePacksPaths = global.Paths.TemplatePacksPaths
		merged.PoliciesPaths = global.Paths.PoliciesPaths
	}
	if project, err := w.configLoader.LoadProjectConfig(ctx, infraRoot); err == nil && project != nil {
		if len(project.Paths.TemplatePacksPaths) > 0 {
			merged.TemplatePacksPaths = project.Paths.TemplatePacksPaths
		}
		if len(project.Paths.PoliciesPaths) > 0 {
			merged.PoliciesPaths = project.Paths.PoliciesPaths
		}
	}
	return merged
}

func joinColon(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ":"
		}
		out += v
	}
	return out
}
