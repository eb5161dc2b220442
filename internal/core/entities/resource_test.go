package entities

import "testing"

func TestResourceHeader_Validate(t *testing.T) {
	tests := []struct {
		name    string
		header  ResourceHeader
		wantErr bool
	}{
		{
			name: "valid",
			header: ResourceHeader{
				APIVersion: "pmp.io/v1",
				Kind:       KindTemplate,
				Metadata:   ResourceMetadata{Name: "vpc"},
			},
		},
		{
			name:    "missing apiVersion",
			header:  ResourceHeader{Kind: KindTemplate, Metadata: ResourceMetadata{Name: "vpc"}},
			wantErr: true,
		},
		{
			name:    "missing name",
			header:  ResourceHeader{APIVersion: "pmp.io/v1", Kind: KindTemplate},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.header.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTemplateResource_Validate_DuplicateInputName(t *testing.T) {
	tmpl := &TemplateResource{
		ResourceHeader: ResourceHeader{
			APIVersion: "pmp.io/v1",
			Kind:       KindTemplate,
			Metadata:   ResourceMetadata{Name: "vpc"},
		},
		Spec: TemplateSpec{
			Inputs: []InputSpec{
				NewStringInput("cidr", "", true, ""),
				NewStringInput("cidr", "", true, ""),
			},
		},
	}

	if err := tmpl.Validate(); err == nil {
		t.Error("expected duplicate input name to fail validation")
	}
}

func TestTemplateResource_DependencyByKind(t *testing.T) {
	tmpl := &TemplateResource{
		Spec: TemplateSpec{
			Dependencies: []TemplateDependency{
				{DependencyName: "vpc", Project: ProjectReference{APIVersion: "pmp.io/v1", Kind: "Vpc"}},
			},
		},
	}

	dep, ok := tmpl.DependencyByKind("pmp.io/v1", "Vpc")
	if !ok {
		t.Fatal("expected to find dependency by kind")
	}
	if dep.DependencyName != "vpc" {
		t.Errorf("DependencyName = %q, want %q", dep.DependencyName, "vpc")
	}

	if _, ok := tmpl.DependencyByKind("pmp.io/v1", "Unknown"); ok {
		t.Error("expected no match for unknown kind")
	}
}

func TestTemplateResource_InputsForEnvironment(t *testing.T) {
	tmpl := &TemplateResource{
		Spec: TemplateSpec{
			Inputs: []InputSpec{
				{
					Name:    "log_level",
					Kind:    InputSelect,
					Options: []string{"debug", "info", "warn"},
					Default: "info",
					Environments: map[string]InputEnvironmentOverride{
						"dev": {Default: "debug"},
					},
				},
				{Name: "app_name", Kind: InputString, Default: "my-app"},
			},
		},
	}

	dev := tmpl.InputsForEnvironment("dev")
	if dev[0].Default != "debug" {
		t.Errorf("dev log_level default = %v, want %q", dev[0].Default, "debug")
	}
	if dev[1].Default != "my-app" {
		t.Errorf("dev app_name default = %v, want %q", dev[1].Default, "my-app")
	}

	prod := tmpl.InputsForEnvironment("prod")
	if prod[0].Default != "info" {
		t.Errorf("prod log_level default = %v, want the base default %q", prod[0].Default, "info")
	}

	if tmpl.Spec.Inputs[0].Default != "info" {
		t.Error("InputsForEnvironment must not mutate the template's base inputs")
	}
}

func TestHookSet_Merge(t *testing.T) {
	infra := HookSet{PreApply: []string{"infra-check.sh"}}
	env := HookSet{PreApply: []string{"env-check.sh"}}

	merged := infra.Merge(env)
	want := []string{"infra-check.sh", "env-check.sh"}
	if len(merged.PreApply) != 2 || merged.PreApply[0] != want[0] || merged.PreApply[1] != want[1] {
		t.Errorf("Merge() PreApply = %v, want %v", merged.PreApply, want)
	}
}

func TestProjectEnvironmentResource_IsDependencyOnly(t *testing.T) {
	env := &ProjectEnvironmentResource{Spec: ProjectEnvironmentSpec{Executor: ExecutorConfig{Name: "none"}}}
	if !env.IsDependencyOnly() {
		t.Error("expected executor 'none' to be dependency-only")
	}

	env2 := &ProjectEnvironmentResource{Spec: ProjectEnvironmentSpec{Executor: ExecutorConfig{Name: "tofu"}}}
	if env2.IsDependencyOnly() {
		t.Error("expected executor 'tofu' to not be dependency-only")
	}
}
