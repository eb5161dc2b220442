package usecases

import (
	"context"
	"testing"

	"github.com/pmp-io/pmp/internal/core/entities"
)

type fakePolicyEvaluator struct {
	policies []entities.PolicyMetadata
	results  []entities.PolicyResult
}

func (f *fakePolicyEvaluator) LoadPolicies(ctx context.Context, searchPaths []string) ([]entities.PolicyMetadata, error) {
	return f.policies, nil
}

func (f *fakePolicyEvaluator) Evaluate(ctx context.Context, input map[string]any, entrypointPrefix string) ([]entities.PolicyResult, error) {
	return f.results, nil
}

func TestEvaluatePolicy_Check(t *testing.T) {
	evaluator := &fakePolicyEvaluator{
		policies: []entities.PolicyMetadata{
			{Name: "encrypt_at_rest", ComplianceRefs: []entities.ComplianceRef{{Framework: "CIS", Control: "1.1"}}},
			{Name: "public_buckets", ComplianceRefs: []entities.ComplianceRef{{Framework: "CIS", Control: "1.2"}}},
		},
		results: []entities.PolicyResult{
			{PolicyName: "encrypt_at_rest", Passed: true},
			{PolicyName: "public_buckets", Passed: false, Violations: []entities.Violation{{Severity: entities.SeverityError, Message: "public bucket found"}}},
		},
	}

	uc := NewEvaluatePolicy(evaluator)
	results, report, err := uc.Check(context.Background(), []string{"./policies"}, map[string]any{}, "pmp")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if len(report.Controls) != 2 {
		t.Fatalf("unexpected controls: %+v", report.Controls)
	}
	if report.Score != 50 {
		t.Errorf("Score = %v, want 50", report.Score)
	}
}

func TestEvaluatePolicy_Check_NoControls(t *testing.T) {
	evaluator := &fakePolicyEvaluator{}
	uc := NewEvaluatePolicy(evaluator)
	_, report, err := uc.Check(context.Background(), nil, map[string]any{}, "pmp")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if report.Score != 100 {
		t.Errorf("Score = %v, want 100 with no controls", report.Score)
	}
}
