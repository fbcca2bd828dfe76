package checks

import (
	"context"
	"fmt"

	"github.com/dbaudit/datacheck/connector"
	"github.com/dbaudit/datacheck/params"
)

// NullValueCheck counts NULL values in one column of one table and fails
// when any are present.
type NullValueCheck struct{}

func (c *NullValueCheck) Category() string       { return CategoryNullValue }
func (c *NullValueCheck) RequiredKeys() []string { return []string{"table", "column"} }
func (c *NullValueCheck) RequiresTarget() bool   { return false }

func (c *NullValueCheck) Run(ctx context.Context, set params.Set, source, _ connector.Connector) (*Result, error) {
	table := set.Get("table")
	column := set.Get("column")

	query, err := connector.NullCountQuery(table, column)
	if err != nil {
		return nil, params.NewConfigurationError(err.Error())
	}
	if !source.TableExists(table) {
		return fail(fmt.Sprintf("table %q does not exist", table), nil), nil
	}

	nulls, err := scalarQuery(ctx, source, query)
	if err != nil {
		return nil, fmt.Errorf("counting NULL values: %w", err)
	}

	details := map[string]any{
		"table":      table,
		"column":     column,
		"null_count": nulls,
	}
	if nulls > 0 {
		return fail(fmt.Sprintf("found %d NULL value(s) in %s.%s", nulls, table, column), details), nil
	}
	return pass(fmt.Sprintf("no NULL values in %s.%s", table, column), details), nil
}
