package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dbaudit/datacheck/runner"
	"github.com/dbaudit/datacheck/types"
)

// MarkdownFormatter formats run reports as a Markdown document suitable for
// filing alongside the run artifacts.
type MarkdownFormatter struct {
	// Now is the clock used for the generated-at stamp. Overridable in
	// tests to keep output stable.
	Now func() time.Time
}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{Now: time.Now}
}

// Format formats the report as Markdown
func (mf *MarkdownFormatter) Format(report *runner.Report) (string, error) {
	var b strings.Builder

	b.WriteString("# Data Validation Report\n\n")
	b.WriteString("## Execution Summary\n\n")
	fmt.Fprintf(&b, "- **Run ID:** `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- **Generated:** %s\n", mf.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Overall Status:** %s\n", getStatusDisplay(report.Status).Text)
	fmt.Fprintf(&b, "- **Total Duration:** %s\n\n", formatDuration(report.Duration))

	mf.writeStatistics(&b, report.Stats)
	mf.writeResults(&b, report)
	mf.writeProblemDetails(&b, report)

	return b.String(), nil
}

func (mf *MarkdownFormatter) writeStatistics(b *strings.Builder, stats runner.ResultStats) {
	b.WriteString("## Statistics\n\n")
	b.WriteString("| Metric | Value | Percentage |\n")
	b.WriteString("|--------|-------|------------|\n")
	fmt.Fprintf(b, "| Total Checks | %d | 100.0%% |\n", stats.Total)
	fmt.Fprintf(b, "| Passed | %d | %s |\n", stats.Passed, percentage(stats.Passed, stats.Total))
	fmt.Fprintf(b, "| Failed | %d | %s |\n", stats.Failed, percentage(stats.Failed, stats.Total))
	fmt.Fprintf(b, "| Skipped | %d | %s |\n", stats.Skipped, percentage(stats.Skipped, stats.Total))
	fmt.Fprintf(b, "| Errored | %d | %s |\n\n", stats.Errored, percentage(stats.Errored, stats.Total))
}

func (mf *MarkdownFormatter) writeResults(b *strings.Builder, report *runner.Report) {
	b.WriteString("## Results\n\n")
	b.WriteString("| Group | Test ID | Name | Category | Status | Duration | Message |\n")
	b.WriteString("|-------|---------|------|----------|--------|----------|--------|\n")
	for _, group := range report.Groups {
		for _, outcome := range group.Outcomes {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				group.Name,
				outcome.TestID,
				escapeCell(outcome.Name),
				outcome.Category,
				getStatusDisplay(outcome.Status).Text,
				formatDuration(outcome.Duration),
				escapeCell(outcome.Message))
		}
	}
	b.WriteString("\n")
}

// writeProblemDetails lists the captured details of every failed or errored
// outcome so a reader does not have to rerun the suite to see what broke.
func (mf *MarkdownFormatter) writeProblemDetails(b *strings.Builder, report *runner.Report) {
	var problems []*types.Outcome
	for _, outcome := range report.Outcomes() {
		if outcome.Status.IsFailure() {
			problems = append(problems, outcome)
		}
	}
	if len(problems) == 0 {
		return
	}

	b.WriteString("## Failure Details\n\n")
	for _, outcome := range problems {
		fmt.Fprintf(b, "### %s: %s\n\n", outcome.TestID, outcome.Name)
		fmt.Fprintf(b, "- **Status:** %s\n", getStatusDisplay(outcome.Status).Text)
		fmt.Fprintf(b, "- **Message:** %s\n", outcome.Message)
		if len(outcome.Details) > 0 {
			keys := make([]string, 0, len(outcome.Details))
			for key := range outcome.Details {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(b, "- **%s:** %v\n", key, outcome.Details[key])
			}
		}
		b.WriteString("\n")
	}
}

func percentage(part, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}
