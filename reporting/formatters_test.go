package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbaudit/datacheck/types"
)

func TestGetStatusDisplay(t *testing.T) {
	tests := []struct {
		status types.TestStatus
		want   string
	}{
		{types.TestStatusPass, "PASS"},
		{types.TestStatusFail, "FAIL"},
		{types.TestStatusSkip, "SKIP"},
		{types.TestStatusError, "ERROR"},
		{types.TestStatus("bogus"), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, getStatusDisplay(tt.status).Text)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0ms", formatDuration(0))
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m0s", formatDuration(2*time.Minute))
}

func TestTableFormatter(t *testing.T) {
	tf := NewTableFormatter("Data Validation Results", true)
	out, err := tf.Format(fixtureReport())
	require.NoError(t, err)

	assert.Contains(t, out, "Data Validation Results")
	assert.Contains(t, out, "migration")
	assert.Contains(t, out, "TC001")
	assert.Contains(t, out, "ROW_COUNT_VALIDATION")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "FAIL")
}

func TestTableFormatterGroupsOnly(t *testing.T) {
	tf := NewTableFormatter("Data Validation Results", false)
	out, err := tf.Format(fixtureReport())
	require.NoError(t, err)

	assert.Contains(t, out, "migration")
	assert.NotContains(t, out, "TC001")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, NewFileWriter(path).Write("hello"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDirectorySink(t *testing.T) {
	baseDir := t.TempDir()
	sink := NewDirectorySink(baseDir)

	dir, err := sink.Write(fixtureReport())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(baseDir, "testrun-run-0001"), dir)

	md, err := os.ReadFile(filepath.Join(dir, MarkdownReportFilename))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Data Validation Report")

	summary, err := os.ReadFile(filepath.Join(dir, SummaryFilename))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "TOTAL")

	page, err := os.ReadFile(filepath.Join(dir, HTMLReportFilename))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1>Data Validation Report</h1>")
}

func TestHTMLFormatter(t *testing.T) {
	hf, err := NewHTMLFormatter()
	require.NoError(t, err)

	out, err := hf.Format(fixtureReport())
	require.NoError(t, err)
	assert.Contains(t, out, "run-0001")
	assert.Contains(t, out, `class="fail"`)
	assert.Contains(t, out, "Group: migration")
	assert.Contains(t, out, "TC002")
}

func TestDirectorySinkRequiresRunID(t *testing.T) {
	sink := NewDirectorySink(t.TempDir())
	report := fixtureReport()
	report.RunID = ""

	_, err := sink.Write(report)
	require.Error(t, err)
}
