package executor

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/pmp-io/pmp/internal/core/entities"
)

// resourceHeaderPattern matches a plan's resource action header, e.g.
// "# aws_s3_bucket.logs will be updated in-place".
var resourceHeaderPattern = regexp.MustCompile(`^#\s+(.+?)\s+(will be|must be)\s+(created|updated|destroyed|replaced)`)

// attributeLinePattern matches an attribute diff line, e.g.
// "      ~ acl = \"private\" -> \"public-read\"".
var attributeLinePattern = regexp.MustCompile(`^\s+([+~-])\s+(\S.*?)\s+=\s+(.+)$`)

// oldNewPattern extracts the before/after sides of a modified attribute
// value, e.g. "\"OLD\" -> \"NEW\"".
var oldNewPattern = regexp.MustCompile(`"(.*)"\s*->\s*"(.*)"`)

// parsePlanOutput extracts drift change records from a detailed-exit-code
// plan's textual output (§4.9).
func parsePlanOutput(output string) []entities.DriftChange {
	var changes []entities.DriftChange
	var currentResource string

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		if m := resourceHeaderPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			currentResource = m[1]
			continue
		}

		m := attributeLinePattern.FindStringSubmatch(line)
		if m == nil || currentResource == "" {
			continue
		}

		kind := kindForSymbol(m[1])
		attribute := m[2]
		value := m[3]

		change := entities.DriftChange{
			ResourceAddress: currentResource,
			Kind:            kind,
			Attribute:       attribute,
		}

		if values := oldNewPattern.FindStringSubmatch(value); values != nil {
			change.Expected = values[1]
			change.Actual = values[2]
		} else {
			change.Actual = strings.Trim(value, `"`)
		}

		changes = append(changes, change)
	}

	return changes
}

func kindForSymbol(symbol string) entities.DriftKind {
	switch symbol {
	case "+":
		return entities.DriftAdded
	case "-":
		return entities.DriftRemoved
	default:
		return entities.DriftModified
	}
}
