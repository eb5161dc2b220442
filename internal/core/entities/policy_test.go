package entities

import "testing"

func TestPolicyResult_HasErrors(t *testing.T) {
	tests := []struct {
		name   string
		result PolicyResult
		want   bool
	}{
		{
			name:   "no violations",
			result: PolicyResult{PolicyName: "no-public-buckets", Passed: true},
			want:   false,
		},
		{
			name: "only warnings",
			result: PolicyResult{
				PolicyName: "tagging",
				Violations: []Violation{{Severity: SeverityWarning, Message: "missing tag"}},
			},
			want: false,
		},
		{
			name: "has error",
			result: PolicyResult{
				PolicyName: "no-public-buckets",
				Violations: []Violation{
					{Severity: SeverityWarning, Message: "missing tag"},
					{Severity: SeverityError, Message: "bucket is public"},
				},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.HasErrors(); got != tt.want {
				t.Errorf("HasErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}
