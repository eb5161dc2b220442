package interpolation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	srcDir           = "src"
	templateFileExt  = ".hbs"
	metadataSentinel = ".pmp."
)

// Render walks templateDir/src and renders each file into targetDir,
// stripping a trailing .hbs suffix from rendered files and copying
// non-template files verbatim. Files whose name contains the metadata
// sentinel (.pmp.) are skipped; an absent src/ directory is not an error. All disk access goes through the engine's FileSystem port
// (§9), so this also runs against the in-memory double.
func (e *Engine) Render(ctx context.Context, templateDir, targetDir string, variables map[string]any) ([]string, error) {
	root := filepath.Join(templateDir, srcDir)
	if _, err := e.fs.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("render %s: %w", templateDir, err)
	}

	var written []string
	err := e.fs.Walk(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if strings.Contains(filepath.Base(path), metadataSentinel) {
			return nil
		}

		data, err := e.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		outRel := rel
		var outData []byte
		if strings.HasSuffix(rel, templateFileExt) {
			outRel = strings.TrimSuffix(rel, templateFileExt)
			rendered, err := e.RenderString(ctx, string(data), variables)
			if err != nil {
				return fmt.Errorf("render %s: %w", rel, err)
			}
			outData = []byte(rendered)
		} else {
			outData = data
		}

		outPath := filepath.Join(targetDir, outRel)
		if err := e.fs.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", filepath.Dir(outPath), err)
		}
		if err := e.fs.WriteFile(outPath, outData, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		written = append(written, outRel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", templateDir, err)
	}

	return written, nil
}
