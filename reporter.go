package datacheck

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/dbaudit/datacheck/reporting"
	"github.com/dbaudit/datacheck/runner"
)

// ReportArchiver is responsible for persisting run reports to disk.
type ReportArchiver interface {
	ArchiveResults(report *runner.Report) (string, error)
}

// FileReportArchiver implements the ReportArchiver interface using a
// per-run report directory.
type FileReportArchiver struct {
	sink   *reporting.DirectorySink
	logger log.Logger
}

// NewFileReportArchiver creates a new FileReportArchiver rooted at baseDir.
func NewFileReportArchiver(baseDir string, logger log.Logger) *FileReportArchiver {
	return &FileReportArchiver{
		sink:   reporting.NewDirectorySink(baseDir),
		logger: logger,
	}
}

// ArchiveResults writes the report artifacts and returns the run directory.
func (a *FileReportArchiver) ArchiveResults(report *runner.Report) (string, error) {
	dir, err := a.sink.Write(report)
	if err != nil {
		return "", err
	}
	a.logger.Info("Report written", "run_id", report.RunID, "dir", dir)
	return dir, nil
}
