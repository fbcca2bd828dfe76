package datacheck

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/dbaudit/datacheck/runner"
)

// TestExecutor is responsible for running validation checks.
type TestExecutor interface {
	RunTests(ctx context.Context) (*runner.Report, error)
}

// DefaultTestExecutor implements the TestExecutor interface.
type DefaultTestExecutor struct {
	runner runner.TestRunner
	logger log.Logger
}

// NewDefaultTestExecutor creates a new DefaultTestExecutor.
func NewDefaultTestExecutor(runner runner.TestRunner, logger log.Logger) *DefaultTestExecutor {
	return &DefaultTestExecutor{
		runner: runner,
		logger: logger,
	}
}

// RunTests runs all checks and returns the report.
func (e *DefaultTestExecutor) RunTests(ctx context.Context) (*runner.Report, error) {
	e.logger.Info("Running all checks...")
	report, err := e.runner.RunAllTests(ctx)
	if err != nil {
		e.logger.Error("Error running checks", "error", err)
		return nil, err
	}
	e.logger.Info("Run completed", "run_id", report.RunID, "status", report.Status)
	return report, nil
}
