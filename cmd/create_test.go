package cmd

import (
	"testing"

	"github.com/pmp-io/pmp/internal/core/entities"
)

func TestResolveTemplateInputs_AppliesEnvironmentOverride(t *testing.T) {
	template := &entities.TemplateResource{
		Spec: entities.TemplateSpec{
			Inputs: []entities.InputSpec{
				{
					Name:    "log_level",
					Kind:    entities.InputSelect,
					Options: []string{"debug", "info", "warn"},
					Default: "info",
					Environments: map[string]entities.InputEnvironmentOverride{
						"dev": {Default: "debug"},
					},
				},
			},
		},
	}

	resolved, err := resolveTemplateInputs(template, "dev", true, noopPrompter{})
	if err != nil {
		t.Fatalf("resolveTemplateInputs() error = %v", err)
	}
	if resolved["log_level"] != "debug" {
		t.Errorf("log_level = %v, want the dev environment override %q", resolved["log_level"], "debug")
	}

	resolved, err = resolveTemplateInputs(template, "prod", true, noopPrompter{})
	if err != nil {
		t.Fatalf("resolveTemplateInputs() error = %v", err)
	}
	if resolved["log_level"] != "info" {
		t.Errorf("log_level = %v, want the base default %q for an environment with no override", resolved["log_level"], "info")
	}
}

func TestResolveInputs_SkipsHiddenShowIf(t *testing.T) {
	inputs := []entities.InputSpec{
		entities.NewBooleanInput("enable_monitoring", "", false, false),
		{
			Name:    "monitoring_endpoint",
			Kind:    entities.InputString,
			Default: "https://example.test",
			ShowIf: []entities.ShowIfCondition{
				{Field: "enable_monitoring", Equals: true},
			},
		},
	}

	resolved := make(map[string]any)
	if err := resolveInputs(inputs, true, noopPrompter{}, resolved); err != nil {
		t.Fatalf("resolveInputs() error = %v", err)
	}
	if _, ok := resolved["monitoring_endpoint"]; ok {
		t.Error("expected monitoring_endpoint to be skipped when enable_monitoring is false")
	}

	inputs[0] = entities.NewBooleanInput("enable_monitoring", "", false, true)
	resolved = make(map[string]any)
	if err := resolveInputs(inputs, true, noopPrompter{}, resolved); err != nil {
		t.Fatalf("resolveInputs() error = %v", err)
	}
	if resolved["monitoring_endpoint"] != "https://example.test" {
		t.Errorf("monitoring_endpoint = %v, want it resolved once enable_monitoring is true", resolved["monitoring_endpoint"])
	}
}
