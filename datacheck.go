// Package datacheck wires the suite registry, connectors, check runner and
// reporting together into the long-running validation service.
package datacheck

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dbaudit/datacheck/checks"
	"github.com/dbaudit/datacheck/connector"
	"github.com/dbaudit/datacheck/exitcodes"
	"github.com/dbaudit/datacheck/registry"
	"github.com/dbaudit/datacheck/runner"
	"github.com/dbaudit/datacheck/types"
)

// datacheck is a data validation tester that runs configured check suites.
type datacheck struct {
	ctx      context.Context
	config   *Config
	version  string
	registry *registry.Registry
	runner   runner.TestRunner
	result   *runner.Report

	executor  TestExecutor
	scheduler TestScheduler
	formatter ResultFormatter
	archiver  ReportArchiver

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*datacheck, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating datacheck with config",
		"suiteConfig", config.SuiteConfig,
		"sourceDSN", config.SourceDSN,
		"targetDSN", config.TargetDSN,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce,
		"legacyDefaults", config.LegacyDefaults)

	reg, err := registry.NewRegistry(registry.Config{
		Log:    config.Log,
		Source: registry.NewFileSource(config.SuiteConfig),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	sourceFactory, err := connector.NewFactory(config.SourceDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create source connector factory: %w", err)
	}
	var targetFactory connector.Factory
	if config.TargetDSN != "" {
		targetFactory, err = connector.NewFactory(config.TargetDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create target connector factory: %w", err)
		}
	}

	testRunner, err := runner.NewTestRunner(runner.Config{
		Registry:       reg,
		Checks:         checks.NewRegistry(),
		Source:         sourceFactory,
		Target:         targetFactory,
		Log:            config.Log,
		LegacyDefaults: config.LegacyDefaults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create test runner: %w", err)
	}
	config.Log.Info("datacheck.New: created registry and test runner")

	return &datacheck{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		runner:           testRunner,
		executor:         NewDefaultTestExecutor(testRunner, config.Log),
		scheduler:        NewDefaultTestScheduler(config.RunInterval, config.RunOnce, config.Log),
		formatter:        NewConsoleResultFormatter(config.Log),
		archiver:         NewFileReportArchiver(config.ReportDir, config.Log),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the validation checks periodically at the configured interval.
func (d *datacheck) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			d.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	d.ctx = ctx

	if d.config.RunOnce {
		d.config.Log.Info("Starting datacheck in run-once mode")
	} else {
		d.config.Log.Info("Starting datacheck in continuous mode", "interval", d.config.RunInterval)
	}

	d.scheduler.RegisterCallback(d.runTests)
	if err := d.scheduler.Start(ctx); err != nil {
		d.config.Log.Error("Runtime error running checks", "error", err)
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	// If in run-once mode, trigger shutdown and return
	if d.config.RunOnce {
		d.config.Log.Info("Checks completed, exiting (run-once mode)")

		if d.result != nil {
			switch {
			case d.result.Stats.Errored > 0:
				d.config.Log.Warn("Run-once completed with errors, returning exit code 2")
				return NewRuntimeError(errors.New(d.result.String()))
			case d.result.Status == types.TestStatusFail:
				d.config.Log.Warn("Run-once completed with failures, returning exit code 1")
				return NewTestFailureError(d.result.String())
			}
		}

		// Only need to call this when we're in run-once mode and all checks passed
		go func() {
			d.shutdownCallback(nil)
		}()
		return nil // Success (exit code 0)
	}

	d.config.Log.Debug("datacheck started successfully")
	return nil
}

// runTests runs all checks and processes the results
func (d *datacheck) runTests() error {
	report, err := d.executor.RunTests(d.ctx)
	if err != nil {
		// This is a runtime error (not a check failure)
		d.config.Log.Error("Runtime error running checks", "error", err)
		return NewRuntimeError(err)
	}
	d.result = report

	if err := d.formatter.FormatResults(report); err != nil {
		d.config.Log.Error("Error formatting results", "error", err)
	}
	if _, err := d.archiver.ArchiveResults(report); err != nil {
		d.config.Log.Error("Error writing report", "error", err)
	}

	d.config.Log.Info("Run completed", "run_id", report.RunID, "status", report.Status)
	return nil
}

// Stop stops the datacheck service.
func (d *datacheck) Stop(ctx context.Context) error {
	d.config.Log.Info("Stopping datacheck")

	if d.scheduler.Stopped() {
		d.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	if err := d.scheduler.Stop(); err != nil {
		return err
	}

	d.config.Log.Info("datacheck stopped successfully")
	return nil
}

// Stopped returns true if the datacheck service is stopped.
func (d *datacheck) Stopped() bool {
	return d.scheduler.Stopped()
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (d *datacheck) WaitForShutdown(ctx context.Context) error {
	return d.scheduler.WaitForShutdown(ctx)
}
