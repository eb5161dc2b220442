package yamlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmp-io/pmp/internal/core/entities"
)

const (
	templatePackFile = ".pmp.template-pack.yaml"
	templateFile     = ".pmp.template.yaml"
	pluginFile       = ".pmp.plugin.yaml"
	templatesDir     = "templates"
	pluginsDir       = "plugins"
)

// TemplatePackStore implements usecases.TemplatePackStore over a plain
// directory tree of YAML resource documents.
type TemplatePackStore struct{}

// NewTemplatePackStore creates a new YAML-backed template pack store.
func NewTemplatePackStore() *TemplatePackStore {
	return &TemplatePackStore{}
}

// DiscoverPacks searches the given priority-ordered paths for directories
// containing a `.pmp.template-pack.yaml` sentinel. Earlier paths shadow
// later ones on name collision. A pack whose sentinel cannot be read or
// parsed is skipped.
func (s *TemplatePackStore) DiscoverPacks(ctx context.Context, searchPaths []string) ([]*entities.TemplatePackResource, error) {
	seen := make(map[string]bool)
	var packs []*entities.TemplatePackResource

	for _, root := range searchPaths {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(root, entry.Name())
			sentinel := filepath.Join(dir, templatePackFile)
			if _, err := os.Stat(sentinel); err != nil {
				continue
			}
			var res entities.TemplatePackResource
			if err := readYAML(sentinel, &res); err != nil {
				continue
			}
			if seen[res.Metadata.Name] {
				continue
			}
			seen[res.Metadata.Name] = true
			res.Path = dir
			packs = append(packs, &res)
		}
	}

	return packs, nil
}

// LoadTemplate loads a template by name from within a discovered pack's
// `templates/<name>/` directory.
func (s *TemplatePackStore) LoadTemplate(ctx context.Context, packDir, templateName string) (*entities.TemplateResource, error) {
	path := filepath.Join(packDir, templatesDir, templateName, templateFile)
	var res entities.TemplateResource
	if err := readYAML(path, &res); err != nil {
		return nil, fmt.Errorf("load template %s: %w", templateName, err)
	}
	return &res, nil
}

// LoadPlugin loads a plugin by name from within a discovered pack's
// `plugins/<name>/` directory.
func (s *TemplatePackStore) LoadPlugin(ctx context.Context, packDir, pluginName string) (*entities.PluginResource, error) {
	path := filepath.Join(packDir, pluginsDir, pluginName, pluginFile)
	var res entities.PluginResource
	if err := readYAML(path, &res); err != nil {
		return nil, fmt.Errorf("load plugin %s: %w", pluginName, err)
	}
	return &res, nil
}

// ListTemplates lists the template names available in a pack.
func (s *TemplatePackStore) ListTemplates(ctx context.Context, packDir string) ([]string, error) {
	return listSentinelDirs(filepath.Join(packDir, templatesDir), templateFile)
}

// ListPlugins lists the plugin names available in a pack.
func (s *TemplatePackStore) ListPlugins(ctx context.Context, packDir string) ([]string, error) {
	return listSentinelDirs(filepath.Join(packDir, pluginsDir), pluginFile)
}

// listSentinelDirs lists the subdirectories of dir that contain the given
// sentinel file, by directory name.
func listSentinelDirs(dir, sentinel string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), sentinel)); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}
