package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbaudit/datacheck/runner"
)

const (
	// RunDirectoryPrefix is the standardized prefix for per-run report directories
	RunDirectoryPrefix = "testrun-"

	MarkdownReportFilename = "report.md"
	HTMLReportFilename     = "report.html"
	SummaryFilename        = "summary.txt"
)

// DirectorySink writes every formatted rendering of a run report into a
// per-run directory under a base directory.
type DirectorySink struct {
	baseDir  string
	markdown ReportFormatter
	html     ReportFormatter
	summary  ReportFormatter
}

// NewDirectorySink creates a sink rooted at baseDir. Each run gets its own
// testrun-<runID> directory.
func NewDirectorySink(baseDir string) *DirectorySink {
	html, err := NewHTMLFormatter()
	if err != nil {
		// The template is a compile-time constant; a parse failure is a bug.
		panic(err)
	}
	return &DirectorySink{
		baseDir:  baseDir,
		markdown: NewMarkdownFormatter(),
		html:     html,
		summary:  NewTableFormatter("Data Validation Results", true),
	}
}

// DirectoryForRun returns the report directory path for a run.
func (s *DirectorySink) DirectoryForRun(runID string) string {
	return filepath.Join(s.baseDir, RunDirectoryPrefix+runID)
}

// Write renders and stores the report. Returns the run directory path.
func (s *DirectorySink) Write(report *runner.Report) (string, error) {
	if report.RunID == "" {
		return "", fmt.Errorf("report has no run ID")
	}

	dir := s.DirectoryForRun(report.RunID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory %q: %w", dir, err)
	}

	md, err := s.markdown.Format(report)
	if err != nil {
		return "", fmt.Errorf("failed to format markdown report: %w", err)
	}
	if err := NewFileWriter(filepath.Join(dir, MarkdownReportFilename)).Write(md); err != nil {
		return "", fmt.Errorf("failed to write markdown report: %w", err)
	}

	page, err := s.html.Format(report)
	if err != nil {
		return "", fmt.Errorf("failed to format html report: %w", err)
	}
	if err := NewFileWriter(filepath.Join(dir, HTMLReportFilename)).Write(page); err != nil {
		return "", fmt.Errorf("failed to write html report: %w", err)
	}

	summary, err := s.summary.Format(report)
	if err != nil {
		return "", fmt.Errorf("failed to format summary: %w", err)
	}
	if err := NewFileWriter(filepath.Join(dir, SummaryFilename)).Write(summary); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}

	return dir, nil
}
