package usecases

import (
	"context"
	"fmt"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// EvaluatePolicy implements the policy engine facade (§4.10 C13): loading
// Rego policies from a prioritised search path and evaluating them
// against an input document, assembling a compliance report from the
// aggregated results.
type EvaluatePolicy struct {
	evaluator PolicyEvaluator
}

// NewEvaluatePolicy creates a new EvaluatePolicy use case.
func NewEvaluatePolicy(evaluator PolicyEvaluator) *EvaluatePolicy {
	return &EvaluatePolicy{evaluator: evaluator}
}

// Check loads every policy reachable along searchPaths and evaluates them
// against input, returning the per-policy results and an aggregated
// compliance report.
func (uc *EvaluatePolicy) Check(ctx context.Context, searchPaths []string, input map[string]any, entrypointPrefix string) ([]entities.PolicyResult, entities.ComplianceReport, error) {
	policies, err := uc.evaluator.LoadPolicies(ctx, searchPaths)
	if err != nil {
		return nil, entities.ComplianceReport{}, fmt.Errorf("evaluate policy: %w", err)
	}

	results, err := uc.evaluator.Evaluate(ctx, input, entrypointPrefix)
	if err != nil {
		return nil, entities.ComplianceReport{}, fmt.Errorf("evaluate policy: %w", err)
	}

	report := buildComplianceReport(policies, results)
	return results, report, nil
}

// buildComplianceReport groups violations by the compliance framework
// controls their owning policies declare (§4.10): a control is failed if
// its policy produced any Error-severity violation, passed otherwise.
// Score is passed_controls / total_controls * 100, or 100 with no controls.
func buildComplianceReport(policies []entities.PolicyMetadata, results []entities.PolicyResult) entities.ComplianceReport {
	resultByPolicy := make(map[string]entities.PolicyResult, len(results))
	for _, r := range results {
		resultByPolicy[r.PolicyName] = r
	}

	var controls []entities.ComplianceControlStatus
	passed := 0
	for _, policy := range policies {
		failed := resultByPolicy[policy.Name].HasErrors()
		for _, ref := range policy.ComplianceRefs {
			status := entities.ComplianceControlStatus{ComplianceRef: ref, Passed: !failed}
			controls = append(controls, status)
			if status.Passed {
				passed++
			}
		}
	}

	score := 100.0
	if len(controls) > 0 {
		score = float64(passed) / float64(len(controls)) * 100
	}

	return entities.ComplianceReport{Results: results, Controls: controls, Score: score}
}
