package flags

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "DATACHECK"

// prefixEnvVars derives the env var name for a flag from its CLI name.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))}
}

var (
	SuiteConfig = &cli.StringFlag{
		Name:     "suite",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("suite"),
		Usage:    "Path to suite config file (eg. 'suite.yaml')",
	}
	SourceDB = &cli.StringFlag{
		Name:     "source-db",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("source-db"),
		Usage:    "Source database DSN (eg. 'sqlite:prod.db' or 'mock:')",
	}
	TargetDB = &cli.StringFlag{
		Name:    "target-db",
		Value:   "",
		EnvVars: prefixEnvVars("target-db"),
		Usage:   "Target database DSN for cross-store checks. Defaults to the source DSN.",
	}
	ReportDir = &cli.StringFlag{
		Name:    "report-dir",
		Value:   "results",
		EnvVars: prefixEnvVars("report-dir"),
		Usage:   "Directory where per-run report directories are written",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("run-interval"),
		Usage:   "Interval between validation runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LegacyDefaults = &cli.BoolFlag{
		Name:    "legacy-defaults",
		Value:   false,
		EnvVars: prefixEnvVars("legacy-defaults"),
		Usage:   "Fall back to the historical product table names when schema or row count cases omit table parameters",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("log-level"),
		Usage:   "Log level (trace, debug, info, warn, error, crit)",
	}
)

var requiredFlags = []cli.Flag{
	SuiteConfig,
	SourceDB,
}

var optionalFlags = []cli.Flag{
	TargetDB,
	ReportDir,
	RunInterval,
	LegacyDefaults,
	LogLevel,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
