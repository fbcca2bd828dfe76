// Package reporting renders run reports for the console and for the
// per-run report directory.
package reporting

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dbaudit/datacheck/runner"
	"github.com/dbaudit/datacheck/types"
)

// StatusDisplay represents display information for an outcome status
type StatusDisplay struct {
	Text  string
	Class string
}

// getStatusDisplay returns human-readable status text and CSS class
func getStatusDisplay(status types.TestStatus) StatusDisplay {
	switch status {
	case types.TestStatusPass:
		return StatusDisplay{Text: "PASS", Class: "pass"}
	case types.TestStatusFail:
		return StatusDisplay{Text: "FAIL", Class: "fail"}
	case types.TestStatusSkip:
		return StatusDisplay{Text: "SKIP", Class: "skip"}
	case types.TestStatusError:
		return StatusDisplay{Text: "ERROR", Class: "error"}
	default:
		return StatusDisplay{Text: "UNKNOWN", Class: "unknown"}
	}
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}

// ReportFormatter defines the interface for different report output formats
type ReportFormatter interface {
	Format(report *runner.Report) (string, error)
}

// ReportWriter defines the interface for writing reports to various destinations
type ReportWriter interface {
	Write(content string) error
}

// FileWriter writes reports to a file
type FileWriter struct {
	path string
}

// NewFileWriter creates a new file writer
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Write writes the content to the file
func (fw *FileWriter) Write(content string) error {
	return os.WriteFile(fw.path, []byte(content), 0644)
}

// StdoutWriter writes reports to stdout
type StdoutWriter struct{}

// NewStdoutWriter creates a new stdout writer
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{}
}

// Write writes the content to stdout
func (sw *StdoutWriter) Write(content string) error {
	_, err := fmt.Print(content)
	return err
}

// TableFormatter formats run reports as an ASCII table
type TableFormatter struct {
	showIndividualCases bool
	title               string
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(title string, showIndividualCases bool) *TableFormatter {
	return &TableFormatter{
		showIndividualCases: showIndividualCases,
		title:               title,
	}
}

// Format formats the report as an ASCII table
func (tf *TableFormatter) Format(report *runner.Report) (string, error) {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(tf.title)

	t.AppendHeader(table.Row{
		"Type", "ID", "Duration", "Checks", "Passed", "Failed", "Skipped", "Errored", "Status",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 120, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Checks", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Errored", Align: text.AlignRight},
	})

	for _, group := range report.Groups {
		t.AppendRow(table.Row{
			"Group",
			group.Name,
			formatDuration(group.Duration),
			"-",
			group.Stats.Passed,
			group.Stats.Failed,
			group.Stats.Skipped,
			group.Stats.Errored,
			getStatusDisplay(group.Status).Text,
		})

		if tf.showIndividualCases {
			for _, outcome := range group.Outcomes {
				t.AppendRow(table.Row{
					"Check",
					fmt.Sprintf("├── %s (%s)", outcome.TestID, outcome.Category),
					formatDuration(outcome.Duration),
					1,
					boolToInt(outcome.Status == types.TestStatusPass),
					boolToInt(outcome.Status == types.TestStatusFail),
					boolToInt(outcome.Status == types.TestStatusSkip),
					boolToInt(outcome.Status == types.TestStatusError),
					getStatusDisplay(outcome.Status).Text,
				})
			}
		}

		t.AppendSeparator()
	}

	switch report.Status {
	case types.TestStatusFail, types.TestStatusError:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case types.TestStatusSkip:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatDuration(report.Duration),
		report.Stats.Total,
		report.Stats.Passed,
		report.Stats.Failed,
		report.Stats.Skipped,
		report.Stats.Errored,
		getStatusDisplay(report.Status).Text,
	})

	t.Render()
	return buf.String(), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
