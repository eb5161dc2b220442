package cli

import (
	"fmt"

	"github.com/pmp-io/pmp/internal/core/entities"
	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure ReportFormatter implements usecases.ReportFormatter.
var _ usecases.ReportFormatter = (*ReportFormatter)(nil)

// ReportFormatter formats validation, graph, change, drift, and
// compliance reports for console display.
type ReportFormatter struct{}

// NewReportFormatter creates a new ReportFormatter.
func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{}
}

func (f *ReportFormatter) PrintValidationReport(errs entities.ValidationErrors) {
	if len(errs) == 0 {
		fmt.Println(successStyle.Render("✓ No validation errors found!"))
		return
	}

	for _, err := range errs {
		fmt.Println(errorStyle.Render(fmt.Sprintf("  %s", err.Error())))
	}
	fmt.Printf("\nTotal errors: %d\n", len(errs))
}

func (f *ReportFormatter) PrintGraphReport(graph *entities.DependencyGraph, bottlenecks []entities.Bottleneck) {
	fmt.Printf("Dependency graph: %d nodes, %d edges\n", graph.Size(), graph.EdgeCount())

	order, err := graph.TopologicalSort()
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("  ✗ %v", err)))
		return
	}
	for _, id := range order {
		node := graph.GetNode(id)
		suffix := ""
		if node != nil && node.DependencyOnly {
			suffix = " (dependency-only)"
		}
		fmt.Printf("  %s%s\n", id, suffix)
	}

	if len(bottlenecks) == 0 {
		return
	}
	fmt.Println("\nBottlenecks (by direct dependents):")
	for _, b := range bottlenecks {
		fmt.Printf("  %-30s impact=%d\n", b.NodeID, b.ImpactSize)
	}
}

func (f *ReportFormatter) PrintChangeReport(changes []entities.ChangeRecord) {
	if len(changes) == 0 {
		fmt.Println(infoStyle.Render("ℹ No affected projects"))
		return
	}
	for _, c := range changes {
		kind := "direct"
		if c.Transitive {
			kind = "transitive"
		}
		fmt.Printf("  %s/%s  %-10s %s\n", c.Project, c.Environment, kind, c.Path)
	}
}

func (f *ReportFormatter) PrintDriftReport(report entities.DriftReport) {
	if !report.HasDrift {
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s/%s: no drift detected", report.Project, report.Environment)))
		return
	}

	fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s/%s: drift detected", report.Project, report.Environment)))
	for _, change := range report.Changes {
		switch change.Kind {
		case entities.DriftAdded:
			fmt.Printf("  + %s\n", change.ResourceAddress)
		case entities.DriftRemoved:
			fmt.Printf("  - %s\n", change.ResourceAddress)
		default:
			fmt.Printf("  ~ %s.%s: %q -> %q\n", change.ResourceAddress, change.Attribute, change.Expected, change.Actual)
		}
	}
}

func (f *ReportFormatter) PrintComplianceReport(report entities.ComplianceReport) {
	fmt.Printf("Compliance score: %.1f%%\n", report.Score)
	for _, control := range report.Controls {
		status := successStyle.Render("PASS")
		if !control.Passed {
			status = errorStyle.Render("FAIL")
		}
		fmt.Printf("  [%s] %s:%s %s\n", status, control.Framework, control.Control, control.Description)
	}

	for _, result := range report.Results {
		if result.Passed {
			continue
		}
		for _, v := range result.Violations {
			fmt.Printf("  [%s] %s: %s\n", v.Severity, v.PolicyName, v.Message)
		}
	}
}
