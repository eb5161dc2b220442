// Package vcs implements the change-source port (§4.6 C9,C18) by shelling
// out to the git binary, modeled on the executor package's binary-lookup-
// and-shell-out idiom.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure GitSource implements usecases.ChangeSource.
var _ usecases.ChangeSource = (*GitSource)(nil)

// GitSource supplies changed paths between two refs via `git diff
// --name-only`.
type GitSource struct {
	binary string
}

// NewGitSource creates a change source backed by the `git` binary
// resolved from PATH.
func NewGitSource() *GitSource {
	return &GitSource{binary: "git"}
}

// ChangedPaths returns the paths that differ between base and head,
// relative to repoRoot.
func (s *GitSource) ChangedPaths(ctx context.Context, repoRoot, base, head string) ([]string, error) {
	path, err := exec.LookPath(s.binary)
	if err != nil {
		return nil, fmt.Errorf("git: binary not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, "diff", "--name-only", base, head)
	cmd.Dir = repoRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git diff --name-only %s %s: %w: %s", base, head, err, stderr.String())
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}
