// Package policy implements the policy engine facade (§4.10 C13): Rego
// policy discovery with annotation-comment metadata extraction, and
// evaluation via the OPA Rego Go API.
package policy

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pmp-io/pmp/internal/core/entities"
)

var (
	packagePattern     = regexp.MustCompile(`^package\s+(\S+)`)
	annotationPattern  = regexp.MustCompile(`^#\s*@([a-zA-Z-]+)\s*(.*)$`)
	compliancePattern  = regexp.MustCompile(`^([^:\s]+):(\S+)\s*(.*)$`)
	entrypointPattern  = regexp.MustCompile(`^(deny|warn|violation|info)(\[|\s*=|\s*:=)`)
)

// policySource pairs a loaded policy's metadata with its raw Rego source,
// kept by the evaluator between a LoadPolicies call and the Evaluate call
// that follows it.
type policySource struct {
	metadata entities.PolicyMetadata
	source   string
}

// discoverRegoFiles walks every search path (in priority order) for
// *.rego files, excluding test files (§4.10).
func discoverRegoFiles(searchPaths []string) ([]string, error) {
	var files []string
	for _, root := range searchPaths {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			name := d.Name()
			if !strings.HasSuffix(name, ".rego") {
				return nil
			}
			if strings.Contains(name, "_test.rego") || strings.HasPrefix(name, "test_") {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// parsePolicyFile extracts a policy's annotation metadata and entry-point
// rule names from its Rego source (§4.10).
func parsePolicyFile(path string, source string) entities.PolicyMetadata {
	meta := entities.PolicyMetadata{Path: path}
	entryPoints := map[string]bool{}

	scanner := bufio.NewScanner(strings.NewReader(source))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := packagePattern.FindStringSubmatch(line); m != nil && meta.Name == "" {
			meta.Name = m[1]
			continue
		}

		if m := annotationPattern.FindStringSubmatch(line); m != nil {
			applyAnnotation(&meta, m[1], strings.TrimSpace(m[2]))
			continue
		}

		if m := entrypointPattern.FindStringSubmatch(line); m != nil {
			entryPoints[m[1]] = true
		}
	}

	for _, name := range []string{"deny", "warn", "violation", "info"} {
		if entryPoints[name] {
			meta.EntryPoints = append(meta.EntryPoints, name)
		}
	}

	return meta
}

func applyAnnotation(meta *entities.PolicyMetadata, key, value string) {
	switch key {
	case "description":
		meta.Description = value
	case "remediation":
		meta.Remediation = value
	case "remediation-code":
		meta.RemediationCode = value
	case "remediation-url":
		meta.RemediationURL = value
	case "remediation-auto":
		meta.RemediationAuto = parseBool(value)
	case "compliance":
		if m := compliancePattern.FindStringSubmatch(value); m != nil {
			meta.ComplianceRefs = append(meta.ComplianceRefs, entities.ComplianceRef{
				Framework:   m[1],
				Control:     m[2],
				Description: strings.TrimSpace(m[3]),
			})
		}
	}
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1":
		return true
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return false
}
