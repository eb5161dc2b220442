// Package entities defines the core domain models for the pmp infrastructure
// orchestrator: template packs, templates, plugins, the enclosing
// infrastructure container, and the per-environment project instances that
// the dependency graph and renderer operate on.
//
// These are pure Go structs with validation logic and zero external
// dependencies beyond YAML struct tags — the same "plain struct +
// Validate()" idiom used throughout this package.
package entities

// ResourceKind identifies the (apiVersion, kind) pair every on-disk
// metadata document carries.
type ResourceKind string

const (
	KindTemplatePack       ResourceKind = "TemplatePack"
	KindTemplate           ResourceKind = "Template"
	KindPlugin             ResourceKind = "Plugin"
	KindInfrastructure     ResourceKind = "Infrastructure"
	KindProjectEnvironment ResourceKind = "ProjectEnvironment"
	KindProject            ResourceKind = "Project"
)

// ResourceHeader is embedded in every resource document for uniform
// (apiVersion, kind) tagging and metadata.
type ResourceHeader struct {
	APIVersion string              `yaml:"apiVersion"`
	Kind       ResourceKind        `yaml:"kind"`
	Metadata   ResourceMetadata    `yaml:"metadata"`
}

// ResourceMetadata carries the name and optional description every
// resource document's metadata block has.
type ResourceMetadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// EnvironmentName is only meaningful on ProjectEnvironment documents.
	EnvironmentName string `yaml:"environment_name,omitempty"`
}

// Validate checks that the header has the minimum required fields.
func (h ResourceHeader) Validate() error {
	if h.APIVersion == "" {
		return NewValidationError(string(h.Kind), "apiVersion", "", "apiVersion is required", nil)
	}
	if h.Kind == "" {
		return NewValidationError("Resource", "kind", "", "kind is required", nil)
	}
	if h.Metadata.Name == "" {
		return NewValidationError(string(h.Kind), "metadata.name", "", "metadata.name is required", nil)
	}
	return nil
}

// ProjectReference identifies the kind of project a dependency or
// reference points at, optionally narrowed by a label selector.
type ProjectReference struct {
	APIVersion    string         `yaml:"apiVersion"`
	Kind          string         `yaml:"kind"`
	LabelSelector map[string]string `yaml:"label_selector,omitempty"`
	RemoteState   *RemoteStateRef `yaml:"remote_state,omitempty"`
}

// RemoteStateRef names the data-source a dependency resolves to in
// rendered IaC source (e.g. `data.terraform_remote_state.<name>`).
type RemoteStateRef struct {
	DataSourceName string `yaml:"data_source_name"`
}

// TemplateDependency declares a named dependency on another project, along
// with the project-kind schema used to resolve reference projects to a
// concrete data-source name (§4.7).
type TemplateDependency struct {
	DependencyName string           `yaml:"dependency_name"`
	Project        ProjectReference `yaml:"project"`
}

// TemplatePlugins declares which plugins a template installs by default
// and which plugins it permits a project to opt into.
type TemplatePlugins struct {
	Installed []string `yaml:"installed,omitempty"`
	Allowed   []string `yaml:"allowed,omitempty"`
}

// TemplateSpec is the spec.{...} body of a Template resource document.
type TemplateSpec struct {
	APIVersion   string                `yaml:"apiVersion"`
	Kind         string                `yaml:"kind"`
	Executor     string                `yaml:"executor,omitempty"`
	Order        int                   `yaml:"order,omitempty"`
	Inputs       []InputSpec           `yaml:"inputs,omitempty"`
	Dependencies []TemplateDependency  `yaml:"dependencies,omitempty"`
	Environments []string              `yaml:"environments,omitempty"`
	Plugins      TemplatePlugins       `yaml:"plugins,omitempty"`
}

// TemplatePackResource is the `.pmp.template-pack.yaml` document: the
// container sentinel that marks a directory as a template pack.
type TemplatePackResource struct {
	ResourceHeader `yaml:",inline"`
	// Path is the absolute directory this pack was discovered in; not
	// persisted, populated by the loader.
	Path string `yaml:"-"`
}

// TemplateResource is a `.pmp.template.yaml` document: a parametric
// blueprint under a pack's `templates/<name>/` directory.
type TemplateResource struct {
	ResourceHeader `yaml:",inline"`
	Spec           TemplateSpec `yaml:"spec"`
}

// Validate checks the template resource for structural integrity.
func (t *TemplateResource) Validate() error {
	var errs ValidationErrors
	if err := t.ResourceHeader.Validate(); err != nil {
		errs.Add("Template", "header", "", err.Error(), err)
	}
	seen := make(map[string]bool, len(t.Spec.Inputs))
	for _, in := range t.Spec.Inputs {
		if in.Name == "" {
			errs.Add("Template", "inputs", "", "input name is required", nil)
			continue
		}
		if seen[in.Name] {
			errs.Add("Template", "inputs", in.Name, "duplicate input name", nil)
		}
		seen[in.Name] = true
		if err := in.Validate(); err != nil {
			errs.Add("Template", "inputs."+in.Name, "", err.Error(), err)
		}
	}
	for _, dep := range t.Spec.Dependencies {
		if dep.DependencyName == "" {
			errs.Add("Template", "dependencies", "", "dependency_name is required", nil)
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// DependencyByName finds a declared dependency by its dependency_name.
func (t *TemplateResource) DependencyByName(name string) (*TemplateDependency, bool) {
	for i := range t.Spec.Dependencies {
		if t.Spec.Dependencies[i].DependencyName == name {
			return &t.Spec.Dependencies[i], true
		}
	}
	return nil, false
}

// DependencyByKind finds the first declared dependency whose project kind
// matches (apiVersion, kind) — used to resolve reference projects to a
// canonical data-source name (§4.7 step 4).
func (t *TemplateResource) DependencyByKind(apiVersion, kind string) (*TemplateDependency, bool) {
	for i := range t.Spec.Dependencies {
		d := &t.Spec.Dependencies[i]
		if d.Project.APIVersion == apiVersion && d.Project.Kind == kind {
			return d, true
		}
	}
	return nil, false
}

// InputByName finds a declared input by name.
func (t *TemplateResource) InputByName(name string) (*InputSpec, bool) {
	for i := range t.Spec.Inputs {
		if t.Spec.Inputs[i].Name == name {
			return &t.Spec.Inputs[i], true
		}
	}
	return nil, false
}

// InputsForEnvironment returns the template's declared inputs with each
// input's environment-scoped default override (§3, §9) applied for env.
func (t *TemplateResource) InputsForEnvironment(env string) []InputSpec {
	inputs := make([]InputSpec, len(t.Spec.Inputs))
	for i, in := range t.Spec.Inputs {
		inputs[i] = in.ForEnvironment(env)
	}
	return inputs
}

// PluginResource is a `.pmp.plugin.yaml` document — same shape as a
// template minus `environments`, plus a free-form role.
type PluginResource struct {
	ResourceHeader `yaml:",inline"`
	Spec           PluginSpec `yaml:"spec"`
}

// PluginSpec is the spec.{...} body of a Plugin resource document.
type PluginSpec struct {
	APIVersion   string               `yaml:"apiVersion"`
	Kind         string               `yaml:"kind"`
	Role         string               `yaml:"role,omitempty"`
	Inputs       []InputSpec          `yaml:"inputs,omitempty"`
	Dependencies []TemplateDependency `yaml:"dependencies,omitempty"`
}

// EnvironmentDecl names one environment in an Infrastructure document's
// spec.environments map.
type EnvironmentDecl struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// ExecutorConfig names the provisioner binary and its free-form config
// block, declared at infrastructure or environment scope.
type ExecutorConfig struct {
	Name   string         `yaml:"name"`
	Config map[string]any `yaml:"config,omitempty"`
}

// HookPhase identifies one of the six lifecycle hook phases (§4.8).
type HookPhase string

const (
	HookPrePreview   HookPhase = "pre_preview"
	HookPostPreview  HookPhase = "post_preview"
	HookPreApply     HookPhase = "pre_apply"
	HookPostApply    HookPhase = "post_apply"
	HookPreDestroy   HookPhase = "pre_destroy"
	HookPostDestroy  HookPhase = "post_destroy"
)

// HookSet groups declared shell commands by lifecycle phase.
type HookSet struct {
	PrePreview  []string `yaml:"pre_preview,omitempty"`
	PostPreview []string `yaml:"post_preview,omitempty"`
	PreApply    []string `yaml:"pre_apply,omitempty"`
	PostApply   []string `yaml:"post_apply,omitempty"`
	PreDestroy  []string `yaml:"pre_destroy,omitempty"`
	PostDestroy []string `yaml:"post_destroy,omitempty"`
}

// ForPhase returns the declared commands for a given phase.
func (h HookSet) ForPhase(phase HookPhase) []string {
	switch phase {
	case HookPrePreview:
		return h.PrePreview
	case HookPostPreview:
		return h.PostPreview
	case HookPreApply:
		return h.PreApply
	case HookPostApply:
		return h.PostApply
	case HookPreDestroy:
		return h.PreDestroy
	case HookPostDestroy:
		return h.PostDestroy
	default:
		return nil
	}
}

// Merge concatenates infrastructure-scope hooks before environment-scope
// hooks for every phase, per §4.8's merging rule (H_i ++ H_e).
func (h HookSet) Merge(env HookSet) HookSet {
	return HookSet{
		PrePreview:  append(append([]string{}, h.PrePreview...), env.PrePreview...),
		PostPreview: append(append([]string{}, h.PostPreview...), env.PostPreview...),
		PreApply:    append(append([]string{}, h.PreApply...), env.PreApply...),
		PostApply:   append(append([]string{}, h.PostApply...), env.PostApply...),
		PreDestroy:  append(append([]string{}, h.PreDestroy...), env.PreDestroy...),
		PostDestroy: append(append([]string{}, h.PostDestroy...), env.PostDestroy...),
	}
}

// CostConfig is the infrastructure-level free-form cost-provider config
// block; the cost provider itself is an out-of-scope collaborator.
type CostConfig map[string]any

// TemplatePackBinding names, per pack, which templates an infrastructure
// has opted into (spec.template_packs.<pack>.templates.<tmpl>: {}).
type TemplatePackBinding struct {
	Templates map[string]struct{} `yaml:"templates,omitempty"`
}

// InfrastructureSpec is the spec.{...} body of the root Infrastructure
// document.
type InfrastructureSpec struct {
	Environments  map[string]EnvironmentDecl    `yaml:"environments"`
	Categories    []string                      `yaml:"categories,omitempty"`
	TemplatePacks map[string]TemplatePackBinding `yaml:"template_packs,omitempty"`
	Executor      *ExecutorConfig               `yaml:"executor,omitempty"`
	Hooks         HookSet                       `yaml:"hooks,omitempty"`
	Cost          CostConfig                    `yaml:"cost,omitempty"`
}

// InfrastructureResource is the `.pmp.infrastructure.yaml` document whose
// presence at a directory marks that directory as the infrastructure root.
type InfrastructureResource struct {
	ResourceHeader `yaml:",inline"`
	Spec           InfrastructureSpec `yaml:"spec"`
	// Path is the absolute directory this document was loaded from; not
	// persisted, populated by the loader.
	Path string `yaml:"-"`
}

// HasEnvironment reports whether the infrastructure declares the named
// environment.
func (i *InfrastructureResource) HasEnvironment(name string) bool {
	_, ok := i.Spec.Environments[name]
	return ok
}

// ChildProjectRef is one entry in a parent environment's spec.projects[]
// list: a declared child project the orchestrator (C10) materialises.
type ChildProjectRef struct {
	Name             string                    `yaml:"name"`
	TemplatePack     string                    `yaml:"template_pack"`
	Template         string                    `yaml:"template"`
	Environment      string                    `yaml:"environment"`
	UseAllDefaults   bool                      `yaml:"use_all_defaults,omitempty"`
	Inputs           map[string]ChildInputValue `yaml:"inputs,omitempty"`
	ReferenceProjects []ChildReferenceProject   `yaml:"reference_projects,omitempty"`
}

// ChildInputValue is one configured input value for a child project: either
// an explicit value, or a request to use the template's declared default.
type ChildInputValue struct {
	Value      any  `yaml:"value,omitempty"`
	UseDefault bool `yaml:"use_default,omitempty"`
}

// ChildReferenceProject is a configured reference from a child project to
// another project, prior to resolution (§4.7 step 4).
type ChildReferenceProject struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment,omitempty"`
}

// TemplateReferenceProject is the resolved runtime reference surfaced by
// the project-group orchestrator and persisted into a child's
// `.pmp.environment.yaml` spec.template_reference_projects[].
type TemplateReferenceProject struct {
	APIVersion     string `yaml:"apiVersion"`
	Kind           string `yaml:"kind"`
	Name           string `yaml:"name"`
	Environment    string `yaml:"environment"`
	DataSourceName string `yaml:"data_source_name"`
}

// EnvironmentDependency declares a need for another (project, environment)
// to exist before this one, per environment name list.
type EnvironmentDependency struct {
	DependencyName string   `yaml:"dependency_name"`
	ProjectName    string   `yaml:"project_name"`
	Environments   []string `yaml:"environments"`
	Create         bool     `yaml:"create,omitempty"`
}

// ProjectEnvironmentSpec is the spec.{...} body of a ProjectEnvironment
// document — the run-time truth consumed by the graph and the executor.
type ProjectEnvironmentSpec struct {
	Resource                 ProjectReference           `yaml:"resource"`
	Executor                 ExecutorConfig             `yaml:"executor"`
	Inputs                   map[string]any             `yaml:"inputs,omitempty"`
	Dependencies             []EnvironmentDependency     `yaml:"dependencies,omitempty"`
	Projects                 []ChildProjectRef           `yaml:"projects,omitempty"`
	TemplateReferenceProjects []TemplateReferenceProject `yaml:"template_reference_projects,omitempty"`
	Hooks                    HookSet                    `yaml:"hooks,omitempty"`
}

// ProjectEnvironmentResource is the per-environment instance file
// `<project>/environments/<env>/.pmp.environment.yaml`.
type ProjectEnvironmentResource struct {
	ResourceHeader `yaml:",inline"`
	Spec           ProjectEnvironmentSpec `yaml:"spec"`
	// Path is the absolute directory this environment instance lives in;
	// not persisted, populated by the loader.
	Path string `yaml:"-"`
}

// IsDependencyOnly reports whether this environment's executor is the
// sentinel "none" — a child materialised purely to satisfy a dependency,
// never executed directly (§4.7 lifecycle phase).
func (e *ProjectEnvironmentResource) IsDependencyOnly() bool {
	return e.Spec.Executor.Name == "none"
}

// ProjectResource is the `.pmp.project.yaml` document giving a project's
// logical name; its directory contains an `environments/` subtree.
type ProjectResource struct {
	ResourceHeader `yaml:",inline"`
	// Path is the absolute project directory; not persisted.
	Path string `yaml:"-"`
}
