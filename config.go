package datacheck

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/dbaudit/datacheck/flags"
)

// Config holds the application configuration
type Config struct {
	SuiteConfig    string        // Path to the suite configuration file
	SourceDSN      string        // Source database DSN
	TargetDSN      string        // Target database DSN, empty means use the source
	ReportDir      string        // Directory where per-run reports are written
	RunInterval    time.Duration // Interval between validation runs
	RunOnce        bool          // Indicates if the service should exit after one run
	LegacyDefaults bool          // Restore historical table fallbacks for migration checks
	Log            log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	suiteConfig := ctx.String(flags.SuiteConfig.Name)
	if suiteConfig == "" {
		return nil, errors.New("suite configuration file is required")
	}
	absSuiteConfig, err := filepath.Abs(suiteConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for suite config '%s': %w", suiteConfig, err)
	}

	sourceDSN := ctx.String(flags.SourceDB.Name)
	if sourceDSN == "" {
		return nil, errors.New("source database DSN is required")
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	reportDir := ctx.String(flags.ReportDir.Name)
	if reportDir == "" {
		reportDir = "results"
	}
	reportDir, err = filepath.Abs(reportDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for report directory '%s': %w", reportDir, err)
	}

	return &Config{
		SuiteConfig:    absSuiteConfig,
		SourceDSN:      sourceDSN,
		TargetDSN:      ctx.String(flags.TargetDB.Name),
		ReportDir:      reportDir,
		RunInterval:    runInterval,
		RunOnce:        runOnce,
		LegacyDefaults: ctx.Bool(flags.LegacyDefaults.Name),
		Log:            log,
	}, nil
}
