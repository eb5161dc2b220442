package entities

// Severity classifies a policy violation by the Rego rule set that
// produced it: deny -> Error, warn -> Warning, info -> Info (§4.10).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ComplianceRef cross-references a policy rule to a compliance framework
// control, parsed from an `@compliance FRAMEWORK:CONTROL_ID [description]`
// annotation.
type ComplianceRef struct {
	Framework   string `yaml:"framework"`
	Control     string `yaml:"control"`
	Description string `yaml:"description,omitempty"`
}

// PolicyMetadata is the annotation-derived metadata for one loaded Rego
// policy file, extracted from `# @...` comment lines anywhere in the file.
type PolicyMetadata struct {
	// Name is the policy's logical name, taken from the `package` line.
	Name string

	// Path is the source file this policy was loaded from.
	Path string

	Description      string
	Remediation       string
	RemediationCode   string
	RemediationURL    string
	RemediationAuto   bool
	ComplianceRefs    []ComplianceRef

	// EntryPoints lists the rule names discovered in the policy body
	// (deny/warn/violation/info variants).
	EntryPoints []string
}

// Violation is one result produced by evaluating a policy rule set
// against an input document.
type Violation struct {
	PolicyName string        `json:"policy_name"`
	Severity   Severity      `json:"severity"`
	Message    string        `json:"message"`
	Resource   string        `json:"resource,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// PolicyResult is the outcome of evaluating a single policy against one
// input document.
type PolicyResult struct {
	PolicyName string      `json:"policy_name"`
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations,omitempty"`
}

// HasErrors reports whether any violation in the result is Error severity.
func (r PolicyResult) HasErrors() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ComplianceControlStatus is the pass/fail status of one compliance
// framework control after aggregating violations across all evaluations.
type ComplianceControlStatus struct {
	ComplianceRef
	Passed bool `json:"passed"`
}

// ComplianceReport aggregates policy evaluation results into per-control
// pass/fail statuses and one overall compliance score across all
// frameworks (§4.10).
type ComplianceReport struct {
	Results  []PolicyResult            `json:"results"`
	Controls []ComplianceControlStatus `json:"controls"`
	// Score is passed_controls / total_controls * 100, or 100 when there
	// are no controls.
	Score float64 `json:"score"`
}
