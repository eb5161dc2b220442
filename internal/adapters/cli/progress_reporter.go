// Package cli provides terminal-facing implementations of the core's
// ProgressReporter, UserPrompter, and ReportFormatter ports.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Ensure ProgressReporter implements usecases.ProgressReporter.
var _ usecases.ProgressReporter = (*ProgressReporter)(nil)

// ProgressReporter reports lifecycle-command progress to the console.
type ProgressReporter struct{}

// NewProgressReporter creates a new ProgressReporter.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{}
}

func (r *ProgressReporter) ReportProgress(step string, current int, total int, message string) {
	if total > 0 {
		percent := (current * 100) / total
		fmt.Printf("  [%3d%%] %s: %s\n", percent, step, message)
	} else {
		fmt.Printf("  %s: %s\n", step, message)
	}
}

func (r *ProgressReporter) ReportError(err error) {
	fmt.Println(errorStyle.Render(fmt.Sprintf("  ✗ %v", err)))
}

func (r *ProgressReporter) ReportSuccess(message string) {
	fmt.Println(successStyle.Render(fmt.Sprintf("  ✓ %s", message)))
}

func (r *ProgressReporter) ReportInfo(message string) {
	fmt.Println(infoStyle.Render(fmt.Sprintf("  ℹ %s", message)))
}
