package executor

import (
	"testing"

	"github.com/pmp-io/pmp/internal/core/entities"
)

func TestParsePlanOutput_CreatedAndModified(t *testing.T) {
	output := `
Terraform will perform the following actions:

  # aws_s3_bucket.logs will be updated in-place
  ~ resource "aws_s3_bucket" "logs" {
      ~ acl = "private" -> "public-read"
    }

  # aws_instance.web will be created
  + ami = "ami-12345"
`
	changes := parsePlanOutput(output)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d: %+v", len(changes), changes)
	}

	if changes[0].ResourceAddress != "aws_s3_bucket.logs" {
		t.Errorf("ResourceAddress = %q", changes[0].ResourceAddress)
	}
	if changes[0].Kind != entities.DriftModified {
		t.Errorf("Kind = %q, want Modified", changes[0].Kind)
	}
	if changes[0].Expected != "private" || changes[0].Actual != "public-read" {
		t.Errorf("Expected/Actual = %q/%q", changes[0].Expected, changes[0].Actual)
	}

	if changes[1].ResourceAddress != "aws_instance.web" {
		t.Errorf("ResourceAddress = %q", changes[1].ResourceAddress)
	}
	if changes[1].Kind != entities.DriftAdded {
		t.Errorf("Kind = %q, want Added", changes[1].Kind)
	}
}

func TestParsePlanOutput_NoResourceHeaderIgnoresAttributeLines(t *testing.T) {
	changes := parsePlanOutput("  ~ acl = \"a\" -> \"b\"\n")
	if len(changes) != 0 {
		t.Errorf("expected no changes without a resource header, got %+v", changes)
	}
}
