package checks

import (
	"context"
	"fmt"
	"math"

	"github.com/dbaudit/datacheck/connector"
	"github.com/dbaudit/datacheck/params"
)

// RowCountCheck compares the row counts of a source and a target table.
// With no tolerance the counts must match exactly; tolerance_percent allows
// a relative difference, measured against the source count.
type RowCountCheck struct{}

func (c *RowCountCheck) Category() string       { return CategoryRowCount }
func (c *RowCountCheck) RequiredKeys() []string { return []string{"source_table", "target_table"} }
func (c *RowCountCheck) RequiresTarget() bool   { return true }

func (c *RowCountCheck) Run(ctx context.Context, set params.Set, source, target connector.Connector) (*Result, error) {
	sourceTable := set.Get("source_table")
	targetTable := set.Get("target_table")
	for _, name := range []string{sourceTable, targetTable} {
		if !connector.ValidIdentifier(name) {
			return nil, params.NewConfigurationError(fmt.Sprintf("invalid table identifier %q", name))
		}
	}

	tolerance, err := set.Float("tolerance_percent", 0)
	if err != nil {
		return nil, err
	}
	if tolerance < 0 {
		return nil, params.NewConfigurationError(
			fmt.Sprintf("tolerance_percent must not be negative, got %v", tolerance))
	}

	sourceCount := source.RowCount(sourceTable)
	targetCount := target.RowCount(targetTable)
	details := map[string]any{
		"source_count": sourceCount,
		"target_count": targetCount,
	}

	if sourceCount == targetCount {
		return pass(fmt.Sprintf("row count validation passed: %d rows in both tables", sourceCount), details), nil
	}

	difference := int(math.Abs(float64(sourceCount - targetCount)))
	details["difference"] = difference

	if tolerance > 0 && sourceCount > 0 {
		pct := float64(difference) / float64(sourceCount) * 100
		details["difference_percent"] = pct
		if pct <= tolerance {
			return pass(fmt.Sprintf("row counts within %.4g%% tolerance: source=%d, target=%d",
				tolerance, sourceCount, targetCount), details), nil
		}
	}

	return fail(fmt.Sprintf("row count mismatch: source=%d, target=%d", sourceCount, targetCount), details), nil
}
