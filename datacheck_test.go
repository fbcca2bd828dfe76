package datacheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbaudit/datacheck/runner"
	"github.com/dbaudit/datacheck/types"
)

const passingSuite = `
groups:
  - name: smoke
    enabled: true
    tests:
      - id: TC001
        name: user row counts
        enabled: true
        category: ROW_COUNT_VALIDATION
        parameters: "source_table=users;target_table=users"
`

const failingSuite = `
groups:
  - name: smoke
    enabled: true
    tests:
      - id: TC001
        name: mismatched counts
        enabled: true
        category: ROW_COUNT_VALIDATION
        parameters: "source_table=users;target_table=orders"
`

const erroringSuite = `
groups:
  - name: smoke
    enabled: true
    tests:
      - id: TC001
        name: missing parameters
        enabled: true
        category: NULL_VALUE_VALIDATION
        parameters: "table=users"
`

func testConfig(t *testing.T, suite string) *Config {
	t.Helper()
	dir := t.TempDir()
	suitePath := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(suitePath, []byte(suite), 0o644))

	return &Config{
		SuiteConfig: suitePath,
		SourceDSN:   "mock:",
		ReportDir:   filepath.Join(dir, "results"),
		RunOnce:     true,
		Log:         log.New(),
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, "v1", func(error) {})
	require.Error(t, err)
}

func TestNew_BadSuiteConfig(t *testing.T) {
	cfg := testConfig(t, passingSuite)
	cfg.SuiteConfig = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg, "v1", func(error) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create registry")
}

func TestNew_BadDSN(t *testing.T) {
	cfg := testConfig(t, passingSuite)
	cfg.SourceDSN = "postgres://nope"

	_, err := New(context.Background(), cfg, "v1", func(error) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connector factory")
}

func TestRunOnce_AllPass(t *testing.T) {
	cfg := testConfig(t, passingSuite)
	d, err := New(context.Background(), cfg, "v1", func(error) {})
	require.NoError(t, err)

	require.NoError(t, d.Start(context.Background()))

	require.NotNil(t, d.result)
	assert.Equal(t, types.TestStatusPass, d.result.Status)
	assert.Equal(t, 1, d.result.Stats.Passed)

	// The report directory is written for the run.
	reportPath := filepath.Join(cfg.ReportDir, "testrun-"+d.result.RunID, "report.md")
	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Data Validation Report")
}

func TestRunOnce_FailuresReturnTestFailureError(t *testing.T) {
	cfg := testConfig(t, failingSuite)
	d, err := New(context.Background(), cfg, "v1", func(error) {})
	require.NoError(t, err)

	err = d.Start(context.Background())
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
}

func TestRunOnce_ErrorsReturnRuntimeError(t *testing.T) {
	cfg := testConfig(t, erroringSuite)
	d, err := New(context.Background(), cfg, "v1", func(error) {})
	require.NoError(t, err)

	err = d.Start(context.Background())
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
	assert.False(t, IsTestFailureError(err))
}

func TestStartStop_Periodic(t *testing.T) {
	cfg := testConfig(t, passingSuite)
	cfg.RunOnce = false
	cfg.RunInterval = time.Hour

	d, err := New(context.Background(), cfg, "v1", func(error) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, d.Start(ctx))
	assert.False(t, d.Stopped())

	require.NoError(t, d.Stop(ctx))
	assert.True(t, d.Stopped())
	require.NoError(t, d.WaitForShutdown(context.Background()))

	// Second stop is a no-op
	require.NoError(t, d.Stop(ctx))
}

type stubRunner struct {
	report *runner.Report
	err    error
}

func (s *stubRunner) RunAllTests(ctx context.Context) (*runner.Report, error) {
	return s.report, s.err
}

func (s *stubRunner) RunTest(ctx context.Context, tc types.TestCase) *types.Outcome {
	return nil
}

func TestDefaultTestExecutor_RunTests_Success(t *testing.T) {
	report := &runner.Report{RunID: "run-1", Status: types.TestStatusPass}
	executor := NewDefaultTestExecutor(&stubRunner{report: report}, log.New())

	got, err := executor.RunTests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestDefaultTestExecutor_RunTests_Error(t *testing.T) {
	executor := NewDefaultTestExecutor(&stubRunner{err: errors.New("boom")}, log.New())

	_, err := executor.RunTests(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
