package policy

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure Evaluator implements usecases.PolicyEvaluator.
var _ usecases.PolicyEvaluator = (*Evaluator)(nil)

// Evaluator implements usecases.PolicyEvaluator using the OPA Rego Go
// API. LoadPolicies discovers and caches policy sources; Evaluate runs
// the cached set against an input document.
//
// The cache between LoadPolicies and Evaluate matches the two-step call
// shape of usecases.EvaluatePolicy.Check, which loads once then
// evaluates once per invocation.
type Evaluator struct {
	mu       sync.Mutex
	policies []policySource
}

// New creates a policy evaluator with an empty policy cache.
func New() *Evaluator {
	return &Evaluator{}
}

// LoadPolicies discovers *.rego files along searchPaths, parses their
// annotation metadata, and caches their sources for the next Evaluate
// call.
func (e *Evaluator) LoadPolicies(ctx context.Context, searchPaths []string) ([]entities.PolicyMetadata, error) {
	files, err := discoverRegoFiles(searchPaths)
	if err != nil {
		return nil, fmt.Errorf("discover policies: %w", err)
	}

	var loaded []policySource
	var metadata []entities.PolicyMetadata
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read policy %s: %w", path, err)
		}
		meta := parsePolicyFile(path, string(data))
		loaded = append(loaded, policySource{metadata: meta, source: string(data)})
		metadata = append(metadata, meta)
	}

	e.mu.Lock()
	e.policies = loaded
	e.mu.Unlock()

	return metadata, nil
}

// Evaluate runs every cached policy's deny/warn/info rule sets against
// input. entrypointPrefix is joined with each policy's own declared
// package name to form the Rego query path, e.g. prefix "pmp.checks"
// and a policy declaring "package buckets" is queried as
// "data.pmp.checks.buckets.deny".
func (e *Evaluator) Evaluate(ctx context.Context, input map[string]any, entrypointPrefix string) ([]entities.PolicyResult, error) {
	e.mu.Lock()
	policies := make([]policySource, len(e.policies))
	copy(policies, e.policies)
	e.mu.Unlock()

	results := make([]entities.PolicyResult, 0, len(policies))
	for _, p := range policies {
		result, err := e.evaluatePolicy(ctx, p, input, entrypointPrefix)
		if err != nil {
			return nil, fmt.Errorf("evaluate policy %s: %w", p.metadata.Name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

var ruleSets = []struct {
	name     string
	severity entities.Severity
}{
	{"deny", entities.SeverityError},
	{"warn", entities.SeverityWarning},
	{"info", entities.SeverityInfo},
}

func (e *Evaluator) evaluatePolicy(ctx context.Context, p policySource, input map[string]any, entrypointPrefix string) (entities.PolicyResult, error) {
	pkgPath := p.metadata.Name
	if entrypointPrefix != "" {
		pkgPath = entrypointPrefix + "." + p.metadata.Name
	}

	result := entities.PolicyResult{PolicyName: p.metadata.Name}

	for _, rs := range ruleSets {
		query := fmt.Sprintf("data.%s.%s", pkgPath, rs.name)
		values, err := evalRuleSet(ctx, p.metadata.Path, p.source, query, input)
		if err != nil {
			return entities.PolicyResult{}, err
		}
		for _, v := range values {
			result.Violations = append(result.Violations, toViolation(p.metadata.Name, rs.severity, v))
		}
	}

	result.Passed = !result.HasErrors()
	return result, nil
}

// evalRuleSet runs a single data.<pkg>.<rule> query against the module,
// returning the set/array of result values it produced.
func evalRuleSet(ctx context.Context, path, source, query string, input map[string]any) ([]any, error) {
	r := rego.New(
		rego.Query(query),
		rego.Module(path, source),
		rego.Input(input),
		rego.SetRegoVersion(ast.RegoV0),
	)

	preparedQuery, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", query, err)
	}

	rs, err := preparedQuery.Eval(ctx)
	if err != nil {
		// A rule set that is undefined for this input is not an error -
		// it simply produced no violations.
		return nil, nil
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, nil
	}

	switch v := rs[0].Expressions[0].Value.(type) {
	case []any:
		return v, nil
	case nil:
		return nil, nil
	default:
		return []any{v}, nil
	}
}

// toViolation converts a raw Rego rule-set value into a Violation. String
// values become the message verbatim; object values are parsed for
// {msg, resource, details} keys (§4.10).
func toViolation(policyName string, severity entities.Severity, value any) entities.Violation {
	v := entities.Violation{PolicyName: policyName, Severity: severity}

	switch val := value.(type) {
	case string:
		v.Message = val
	case map[string]any:
		if msg, ok := val["msg"].(string); ok {
			v.Message = msg
		}
		if resource, ok := val["resource"].(string); ok {
			v.Resource = resource
		}
		if details, ok := val["details"].(map[string]any); ok {
			v.Details = details
		}
	default:
		v.Message = fmt.Sprintf("%v", val)
	}

	return v
}
