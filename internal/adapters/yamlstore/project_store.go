// Package yamlstore implements the core's ProjectStore and
// TemplatePackStore ports by reading and writing the YAML resource
// documents that make up an infrastructure tree and a template pack,
// using directory-walk and sentinel-file idioms adapted from the
// teacher's markdown/frontmatter project repository.
package yamlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pmp-io/pmp/internal/core/entities"
)

const (
	infrastructureFile = ".pmp.infrastructure.yaml"
	projectFile        = ".pmp.project.yaml"
	environmentFile    = ".pmp.environment.yaml"
	environmentsDir    = "environments"
)

// ProjectStore implements usecases.ProjectStore over a plain directory
// tree of YAML resource documents.
type ProjectStore struct{}

// NewProjectStore creates a new YAML-backed project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{}
}

// LoadInfrastructure loads the infrastructure root document.
func (s *ProjectStore) LoadInfrastructure(ctx context.Context, infraRoot string) (*entities.InfrastructureResource, error) {
	path := filepath.Join(infraRoot, infrastructureFile)
	var res entities.InfrastructureResource
	if err := readYAML(path, &res); err != nil {
		return nil, fmt.Errorf("load infrastructure: %w", err)
	}
	res.Path = infraRoot
	return &res, nil
}

// FindProjectDir searches infraRoot for a project directory whose
// `.pmp.project.yaml` metadata.name matches projectName.
func (s *ProjectStore) FindProjectDir(ctx context.Context, infraRoot, projectName string) (string, bool, error) {
	entries, err := os.ReadDir(infraRoot)
	if err != nil {
		return "", false, fmt.Errorf("find project dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(infraRoot, entry.Name())
		sentinel := filepath.Join(dir, projectFile)
		if _, err := os.Stat(sentinel); err != nil {
			continue
		}
		var res entities.ProjectResource
		if err := readYAML(sentinel, &res); err != nil {
			return "", false, fmt.Errorf("find project dir: %w", err)
		}
		if res.Metadata.Name == projectName {
			return dir, true, nil
		}
	}

	return "", false, nil
}

// LoadEnvironment loads the ProjectEnvironment document for
// (projectName, envName).
func (s *ProjectStore) LoadEnvironment(ctx context.Context, infraRoot, projectName, envName string) (*entities.ProjectEnvironmentResource, error) {
	dir, ok, err := s.FindProjectDir(ctx, infraRoot, projectName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &entities.NotFoundError{Entity: "Project", ID: projectName, Parent: infraRoot}
	}

	envDir := filepath.Join(dir, environmentsDir, envName)
	path := filepath.Join(envDir, environmentFile)
	if _, err := os.Stat(path); err != nil {
		return nil, &entities.NotFoundError{Entity: "ProjectEnvironment", ID: envName, Parent: projectName}
	}

	var res entities.ProjectEnvironmentResource
	if err := readYAML(path, &res); err != nil {
		return nil, fmt.Errorf("load environment %s/%s: %w", projectName, envName, err)
	}
	res.Path = envDir
	return &res, nil
}

// SaveProject persists a Project sentinel document to projectDir,
// creating the directory if needed. It is a no-op if the sentinel
// already exists, since a project's identity is fixed at creation.
func (s *ProjectStore) SaveProject(ctx context.Context, projectDir string, project *entities.ProjectResource) error {
	path := filepath.Join(projectDir, projectFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := writeYAML(path, project); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// SaveEnvironment persists a ProjectEnvironment document.
func (s *ProjectStore) SaveEnvironment(ctx context.Context, env *entities.ProjectEnvironmentResource) error {
	if env == nil {
		return fmt.Errorf("save environment: env cannot be nil")
	}
	if env.Path == "" {
		return fmt.Errorf("save environment: env.Path is required")
	}
	if err := os.MkdirAll(env.Path, 0o755); err != nil {
		return fmt.Errorf("save environment: %w", err)
	}
	path := filepath.Join(env.Path, environmentFile)
	if err := writeYAML(path, env); err != nil {
		return fmt.Errorf("save environment: %w", err)
	}
	return nil
}

// ListProjects enumerates every project directory under infraRoot.
func (s *ProjectStore) ListProjects(ctx context.Context, infraRoot string) ([]*entities.ProjectResource, error) {
	entries, err := os.ReadDir(infraRoot)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var projects []*entities.ProjectResource
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(infraRoot, entry.Name())
		path := filepath.Join(dir, projectFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		var res entities.ProjectResource
		if err := readYAML(path, &res); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		res.Path = dir
		projects = append(projects, &res)
	}

	return projects, nil
}

// ListEnvironments enumerates the environment names declared under a
// project's environments/ directory.
func (s *ProjectStore) ListEnvironments(ctx context.Context, infraRoot, project string) ([]string, error) {
	dir, ok, err := s.FindProjectDir(ctx, infraRoot, project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &entities.NotFoundError{Entity: "Project", ID: project, Parent: infraRoot}
	}

	envsDir := filepath.Join(dir, environmentsDir)
	entries, err := os.ReadDir(envsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list environments: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sentinel := filepath.Join(envsDir, entry.Name(), environmentFile)
		if _, err := os.Stat(sentinel); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// readYAML decodes path into v.
func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// writeYAML encodes v to path, creating parent directories as needed.
func writeYAML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
