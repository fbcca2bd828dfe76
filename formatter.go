package datacheck

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/dbaudit/datacheck/reporting"
	"github.com/dbaudit/datacheck/runner"
)

// ResultFormatter is responsible for formatting and displaying run results.
type ResultFormatter interface {
	FormatResults(report *runner.Report) error
}

// ConsoleResultFormatter implements the ResultFormatter interface.
type ConsoleResultFormatter struct {
	logger log.Logger
	table  *reporting.TableFormatter
	writer reporting.ReportWriter
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger log.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
		table:  reporting.NewTableFormatter("Data Validation Results", true),
		writer: reporting.NewStdoutWriter(),
	}
}

// FormatResults renders the results table to the console followed by the
// plain text summary.
func (f *ConsoleResultFormatter) FormatResults(report *runner.Report) error {
	f.logger.Info("Printing results...")

	rendered, err := f.table.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format results table: %w", err)
	}
	if err := f.writer.Write(rendered); err != nil {
		return fmt.Errorf("failed to write results table: %w", err)
	}

	return f.writer.Write(report.String())
}
