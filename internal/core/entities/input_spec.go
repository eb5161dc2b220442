package entities

import "fmt"

// InputKind discriminates the variants of InputSpec (§3 InputSpec).
type InputKind string

const (
	InputString       InputKind = "string"
	InputNumber       InputKind = "number"
	InputBoolean      InputKind = "boolean"
	InputSelect       InputKind = "select"
	InputProjectRef   InputKind = "project_ref"
	InputProjectsRef  InputKind = "projects_ref"
)

// ShowIfCondition is one clause of an input's show_if (§3): the input is
// only offered when every declared condition's field resolves to a value
// equal to Equals.
type ShowIfCondition struct {
	Field  string `yaml:"field"`
	Equals any    `yaml:"equals"`
}

// InputEnvironmentOverride is the `{default?}` replacement an input's
// base entry receives for one named environment (§3, §9): "Environment-
// level overrides are applied by replacing a base entry with an
// `{name, overridden_default}` pair."
type InputEnvironmentOverride struct {
	Default any `yaml:"default,omitempty"`
}

// InputSpec is a tagged union describing one parameter a template or
// plugin accepts. Only the fields relevant to Kind are populated; callers
// must switch on Kind rather than probing for zero values, since zero
// values (empty string, 0, false) are themselves valid configured data.
type InputSpec struct {
	Name        string    `yaml:"name"`
	Kind        InputKind `yaml:"kind"`
	Description string    `yaml:"description,omitempty"`
	Required    bool      `yaml:"required,omitempty"`

	// String / Number / Boolean variants.
	Default any `yaml:"default,omitempty"`

	// Number variant: inclusive bounds a configured or default value must
	// satisfy. ProjectsRef also uses Min/Max, but there they bound the
	// count of resolved projects rather than a numeric value.
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`

	// Select variant.
	Options []string `yaml:"options,omitempty"`

	// ProjectRef / ProjectsRef variants: the kind of project(s) this input
	// refers to, and an optional label selector narrowing candidates.
	RefKind          string            `yaml:"ref_kind,omitempty"`
	RefLabelSelector map[string]string `yaml:"ref_label_selector,omitempty"`

	// ShowIf conditionally offers this input based on other inputs'
	// already-resolved values; absent means always shown.
	ShowIf []ShowIfCondition `yaml:"show_if,omitempty"`

	// Environments overrides this input's Default per environment name.
	Environments map[string]InputEnvironmentOverride `yaml:"environments,omitempty"`
}

// NewStringInput constructs a string-kind input.
func NewStringInput(name, description string, required bool, def string) InputSpec {
	return InputSpec{Name: name, Kind: InputString, Description: description, Required: required, Default: def}
}

// NewNumberInput constructs a number-kind input.
func NewNumberInput(name, description string, required bool, def float64) InputSpec {
	return InputSpec{Name: name, Kind: InputNumber, Description: description, Required: required, Default: def}
}

// NewBooleanInput constructs a boolean-kind input.
func NewBooleanInput(name, description string, required bool, def bool) InputSpec {
	return InputSpec{Name: name, Kind: InputBoolean, Description: description, Required: required, Default: def}
}

// NewSelectInput constructs a select-kind input with a fixed option set.
func NewSelectInput(name, description string, required bool, options []string, def string) InputSpec {
	return InputSpec{Name: name, Kind: InputSelect, Description: description, Required: required, Options: options, Default: def}
}

// NewProjectRefInput constructs a project_ref-kind input that resolves to
// a single sibling project of the given kind.
func NewProjectRefInput(name, description string, required bool, refKind string, selector map[string]string) InputSpec {
	return InputSpec{Name: name, Kind: InputProjectRef, Description: description, Required: required, RefKind: refKind, RefLabelSelector: selector}
}

// NewProjectsRefInput constructs a projects_ref-kind input that resolves to
// zero or more sibling projects of the given kind.
func NewProjectsRefInput(name, description string, required bool, refKind string, selector map[string]string) InputSpec {
	return InputSpec{Name: name, Kind: InputProjectsRef, Description: description, Required: required, RefKind: refKind, RefLabelSelector: selector}
}

// Validate checks the InputSpec is internally consistent for its Kind.
func (s InputSpec) Validate() error {
	if s.Name == "" {
		return NewValidationError("InputSpec", "name", "", "name is required", nil)
	}
	switch s.Kind {
	case InputString, InputBoolean:
		// Default, if present, is opaque to this layer; render-time
		// coercion reports mismatches.
	case InputNumber:
		if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
			return NewValidationError("InputSpec", "min", s.Name, fmt.Sprintf("min %v exceeds max %v", *s.Min, *s.Max), nil)
		}
		if s.Default != nil {
			if err := s.validateRange(s.Default); err != nil {
				return err
			}
		}
	case InputSelect:
		if len(s.Options) == 0 {
			return NewValidationError("InputSpec", "options", s.Name, "select input requires at least one option", nil)
		}
		if def, ok := s.Default.(string); ok && def != "" && !containsString(s.Options, def) {
			return NewValidationError("InputSpec", "default", s.Name, fmt.Sprintf("default %q is not among options", def), nil)
		}
	case InputProjectRef:
		if s.RefKind == "" {
			return NewValidationError("InputSpec", "ref_kind", s.Name, "project reference input requires ref_kind", nil)
		}
	case InputProjectsRef:
		if s.RefKind == "" {
			return NewValidationError("InputSpec", "ref_kind", s.Name, "project reference input requires ref_kind", nil)
		}
		if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
			return NewValidationError("InputSpec", "min", s.Name, fmt.Sprintf("min %v exceeds max %v", *s.Min, *s.Max), nil)
		}
	default:
		return NewValidationError("InputSpec", "kind", s.Name, fmt.Sprintf("unknown input kind %q", s.Kind), nil)
	}
	return nil
}

// validateRange checks a numeric value against the input's declared
// Min/Max bounds (§4's InputSpec.Number{min?, max?}); a value that can't
// be coerced to a number is left to render-time coercion to reject.
func (s InputSpec) validateRange(value any) error {
	n, ok := toFloat64(value)
	if !ok {
		return nil
	}
	if s.Min != nil && n < *s.Min {
		return NewValidationError("InputSpec", "value", s.Name, fmt.Sprintf("%v is below min %v", value, *s.Min), nil)
	}
	if s.Max != nil && n > *s.Max {
		return NewValidationError("InputSpec", "value", s.Name, fmt.Sprintf("%v is above max %v", value, *s.Max), nil)
	}
	return nil
}

// toFloat64 coerces the numeric Go types YAML/JSON decoding and CLI flag
// parsing produce into a float64 for range comparison.
func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// DefaultValue returns the input's default as resolved for interpolation,
// ok is false when no default is declared.
func (s InputSpec) DefaultValue() (any, bool) {
	if s.Default == nil {
		return nil, false
	}
	return s.Default, true
}

// ForEnvironment returns a copy of s with Default replaced by the
// environment-specific override declared for env, if any (§3, §9). A
// base entry with no matching override is returned unchanged.
func (s InputSpec) ForEnvironment(env string) InputSpec {
	override, ok := s.Environments[env]
	if !ok {
		return s
	}
	overridden := s
	overridden.Default = override.Default
	return overridden
}

// IsVisible reports whether every ShowIf condition holds against the
// already-resolved input values in resolved; an input with no ShowIf
// conditions is always visible.
func (s InputSpec) IsVisible(resolved map[string]any) bool {
	for _, cond := range s.ShowIf {
		actual, ok := resolved[cond.Field]
		if !ok || fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", cond.Equals) {
			return false
		}
	}
	return true
}
