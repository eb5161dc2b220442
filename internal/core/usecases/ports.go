package usecases

import (
	"context"
	"io/fs"
	"time"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// FileSystem abstracts all disk access the core performs, so use cases can
// be tested against an in-memory double rather than the real file system
// (§9). Paths are always absolute.
//
// Implementations MUST treat a missing file/directory as a plain error
// satisfying errors.Is(err, fs.ErrNotExist), never panic.
type FileSystem interface {
	// ReadFile returns the contents of path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path, creating parent directories as needed.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string, perm fs.FileMode) error

	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)

	// Exists reports whether path exists (file or directory).
	Exists(path string) bool

	// ReadDir lists the immediate entries of a directory.
	ReadDir(path string) ([]fs.DirEntry, error)

	// Walk visits every file under root, calling fn for each path in
	// lexical order, matching filepath.WalkDir semantics.
	Walk(root string, fn fs.WalkDirFunc) error

	// Remove deletes a single file or empty directory.
	Remove(path string) error
}

// Logger defines the interface for structured logging.
//
// Implementations MUST emit JSON lines to stderr, gated by a minimum
// level, and support field-chaining for contextualized log statements.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, err error, keysAndValues ...any)

	// WithContext returns a logger carrying the given context.
	WithContext(ctx context.Context) Logger

	// WithFields returns a logger with additional structured fields
	// attached to every subsequent log line.
	WithFields(keysAndValues ...any) Logger
}

// ProgressReporter communicates progress to the user during long-running
// commands (apply/destroy/preview across multiple projects).
//
// Implementations MAY use terminal formatting (via lipgloss) for CLI
// output.
type ProgressReporter interface {
	ReportProgress(step string, current int, total int, message string)
	ReportError(err error)
	ReportSuccess(message string)
	ReportInfo(message string)
}

// UserPrompter defines interactive user input for CLI scaffolding
// commands (discover/create) when required inputs are not supplied via
// flags.
type UserPrompter interface {
	// PromptString displays a prompt and returns the user's input,
	// defaultValue on empty input.
	PromptString(prompt string, defaultValue string) (string, error)

	// PromptSelect displays a prompt with a fixed option set.
	PromptSelect(prompt string, options []string, defaultValue string) (string, error)

	// PromptBool displays a yes/no prompt.
	PromptBool(prompt string, defaultValue bool) (bool, error)
}

// ReportFormatter formats reports for human display on the CLI.
//
// Implementations MAY use terminal formatting (via lipgloss) for CLI
// output and plain text for non-TTY environments.
type ReportFormatter interface {
	// PrintValidationReport formats and displays validation errors.
	PrintValidationReport(errs entities.ValidationErrors)

	// PrintGraphReport formats and displays a dependency graph summary,
	// optionally including bottleneck rankings.
	PrintGraphReport(graph *entities.DependencyGraph, bottlenecks []entities.Bottleneck)

	// PrintChangeReport formats and displays detected change records.
	PrintChangeReport(changes []entities.ChangeRecord)

	// PrintDriftReport formats and displays a drift report.
	PrintDriftReport(report entities.DriftReport)

	// PrintComplianceReport formats and displays a compliance report.
	PrintComplianceReport(report entities.ComplianceReport)
}

// OutputEncoder serializes data to the CLI's supported output formats.
//
// Implementations MUST support JSON and TOON (token-optimized) formats
// for efficient representation of graph, change-set, and compliance data.
type OutputEncoder interface {
	EncodeJSON(value any) ([]byte, error)
	EncodeTOON(value any) ([]byte, error)
	DecodeJSON(data []byte, value any) error
	DecodeTOON(data []byte, value any) error
}

// TemplateEngine renders a template's file tree against a set of
// resolved input values (§4.3 C6).
//
// Implementations MUST register custom helpers (eq, contains, k8s_name,
// bool, secret) and support partial registration from pack and global
// partial directories, and run the `${var:NAME}`/`${env:NAME}` post-pass
// after mustache-style interpolation.
type TemplateEngine interface {
	// RenderString interpolates a single template string against the
	// given variable bindings.
	RenderString(ctx context.Context, source string, variables map[string]any) (string, error)

	// RegisterPartials loads and registers .hbs partials from dir, where
	// each partial is named by its basename without extension. A missing
	// dir is not an error — partial directories are optional.
	RegisterPartials(dir string) error
}

// TemplateRenderer walks a template (or plugin) directory's `src/` tree and
// renders each file into a target directory, skipping metadata sentinels
// and stripping `.hbs` suffixes (§4.3 C6).
type TemplateRenderer interface {
	// Render renders templateDir's src/ tree into targetDir using the
	// given variable bindings, returning the relative output paths
	// written. An absent src/ directory is not an error.
	Render(ctx context.Context, templateDir, targetDir string, variables map[string]any) ([]string, error)
}

// ChangeSource supplies the list of paths that differ between two
// commit-like references, sourced from version control (§4.6 C18).
type ChangeSource interface {
	// ChangedPaths returns paths that differ between base and head,
	// relative to the repository root.
	ChangedPaths(ctx context.Context, repoRoot, base, head string) ([]string, error)
}

// ProcessResult is the outcome of one invocation of an external
// provisioner subcommand.
type ProcessResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Executor is the provisioner port (§4.9 C11): init/plan/apply/destroy/
// refresh against an environment directory.
//
// Implementations MUST locate the provisioner binary via exec.LookPath,
// run with the environment directory as the working directory, and
// return a ProcessResult rather than erroring on non-zero exit (a
// non-zero exit is domain signal, e.g. drift detection, not a Go error).
type Executor interface {
	Name() string
	IsAvailable() bool

	Init(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error)
	Plan(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error)
	Apply(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error)
	Destroy(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error)
	Refresh(ctx context.Context, envDir string, extraArgs []string) (ProcessResult, error)

	// DetectDrift runs refresh followed by a detailed-exit-code plan and
	// parses the plan output into drift change records. hasDrift
	// reflects the provisioner's exit code 2 signal.
	DetectDrift(ctx context.Context, envDir string) (hasDrift bool, changes []entities.DriftChange, err error)
}

// HookRunner executes a single lifecycle hook shell command in an
// environment directory (§4.8 C12).
//
// Implementations MUST run the command via "sh -c" with the environment
// directory as cwd, and classify a non-zero exit as cancel (pre-phase,
// declared cancel) vs failure per the phase's cancellation convention.
type HookRunner interface {
	// Run executes one hook command, returning its process result.
	Run(ctx context.Context, envDir string, command string) (ProcessResult, error)
}

// GraphVisualizer renders a DependencyGraph to a diagram.
//
// Implementations MUST generate D2 source from the graph then shell out
// to the d2 binary to produce an SVG, returning a clear error when the
// binary is unavailable.
type GraphVisualizer interface {
	// RenderSVG generates a diagram for the graph and returns SVG bytes.
	RenderSVG(ctx context.Context, graph *entities.DependencyGraph) ([]byte, error)

	IsAvailable() bool
}

// PolicyEvaluator evaluates Rego policies against an input document
// (§4.10 C13).
type PolicyEvaluator interface {
	// LoadPolicies discovers and parses *.rego files (and their
	// annotation metadata) from the given search paths, in priority
	// order; later paths are lower priority.
	LoadPolicies(ctx context.Context, searchPaths []string) ([]entities.PolicyMetadata, error)

	// Evaluate runs every loaded policy's deny/warn/info rule sets
	// against input, using entrypointPrefix as the Rego package path
	// prefix.
	Evaluate(ctx context.Context, input map[string]any, entrypointPrefix string) ([]entities.PolicyResult, error)
}

// ProjectStore loads and saves the on-disk resource documents that make
// up an infrastructure tree: the root Infrastructure document, per-project
// Project/ProjectEnvironment documents, and template/plugin definitions
// inside discovered template packs (§2, §4.1-4.2).
//
// Implementations MUST treat a project directory as identified by the
// presence of a `.pmp.project.yaml` file directly under it, and an
// environment instance as a subdirectory of `<project>/environments/`
// containing a `.pmp.environment.yaml` file.
type ProjectStore interface {
	// LoadInfrastructure loads the infrastructure root document.
	LoadInfrastructure(ctx context.Context, infraRoot string) (*entities.InfrastructureResource, error)

	// FindProjectDir searches infraRoot for a project directory whose
	// `.pmp.project.yaml` metadata.name matches projectName. ok is false
	// if no such project exists.
	FindProjectDir(ctx context.Context, infraRoot, projectName string) (dir string, ok bool, err error)

	// LoadEnvironment loads the ProjectEnvironment document for
	// (projectName, envName). Returns a *entities.NotFoundError if the
	// environment directory or its metadata file is missing.
	LoadEnvironment(ctx context.Context, infraRoot, projectName, envName string) (*entities.ProjectEnvironmentResource, error)

	// SaveEnvironment persists a ProjectEnvironment document.
	SaveEnvironment(ctx context.Context, env *entities.ProjectEnvironmentResource) error

	// ListProjects enumerates every project directory under infraRoot.
	ListProjects(ctx context.Context, infraRoot string) ([]*entities.ProjectResource, error)

	// ListEnvironments enumerates the environment names declared under a
	// project's environments/ directory.
	ListEnvironments(ctx context.Context, infraRoot, project string) ([]string, error)
}

// TemplatePackStore discovers and loads template packs (§4.1 C3) and
// their templates/plugins (§4.2 C4).
type TemplatePackStore interface {
	// DiscoverPacks searches the given priority-ordered paths for
	// directories containing a `.pmp.template-pack.yaml` sentinel.
	// Earlier paths shadow later ones on name collision.
	DiscoverPacks(ctx context.Context, searchPaths []string) ([]*entities.TemplatePackResource, error)

	// LoadTemplate loads a template by name from within a discovered
	// pack's `templates/<name>/` directory.
	LoadTemplate(ctx context.Context, packDir, templateName string) (*entities.TemplateResource, error)

	// LoadPlugin loads a plugin by name from within a discovered pack's
	// `plugins/<name>/` directory.
	LoadPlugin(ctx context.Context, packDir, pluginName string) (*entities.PluginResource, error)

	// ListTemplates lists the template names available in a pack.
	ListTemplates(ctx context.Context, packDir string) ([]string, error)

	// ListPlugins lists the plugin names available in a pack.
	ListPlugins(ctx context.Context, packDir string) ([]string, error)
}

// ConfigLoader loads hierarchical CLI configuration (flags > env >
// project config > global config > defaults), matching the teacher's
// TOML-based loader shape (§4.11 C14).
type ConfigLoader interface {
	LoadProjectConfig(ctx context.Context, infraRoot string) (*entities.CLIConfig, error)
	LoadGlobalConfig(ctx context.Context) (*entities.CLIConfig, error)
	SaveGlobalConfig(ctx context.Context, config *entities.CLIConfig) error
}

// PathResolver resolves XDG-compliant paths for pmp's own configuration,
// template-pack cache, and policy search paths (§4.11).
//
// Implementations MUST support the XDG Base Directory Specification with
// PMP_CONFIG_HOME / XDG_CONFIG_HOME / XDG_DATA_HOME / XDG_CACHE_HOME
// overrides.
type PathResolver interface {
	ConfigDir() string
	DataDir() string
	CacheDir() string
	ConfigFile() string
	TemplatePacksDir() string
	PoliciesDir() string
	PartialsDir() string
}

// BuildStats holds statistics from a multi-project lifecycle run, for
// reporting.
type BuildStats struct {
	ProjectsProcessed int
	Duration          time.Duration
	Failures          int
}
