package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbaudit/datacheck/connector"
	"github.com/dbaudit/datacheck/params"
)

// DataQualityCheck is a composite check over one table. Which sub-checks
// run depends on the optional parameters supplied:
//
//   - duplicate_key_columns: detect duplicate rows over the listed columns
//   - price_column, salary_column: detect non-positive values
//   - reference_column + parent_table (+ parent_column): detect orphaned
//     foreign keys
//
// The overall result fails as soon as any sub-check finds violations.
type DataQualityCheck struct{}

func (c *DataQualityCheck) Category() string       { return CategoryDataQuality }
func (c *DataQualityCheck) RequiredKeys() []string { return []string{"table"} }
func (c *DataQualityCheck) RequiresTarget() bool   { return false }

func (c *DataQualityCheck) Run(ctx context.Context, set params.Set, source, _ connector.Connector) (*Result, error) {
	table := set.Get("table")
	if !connector.ValidIdentifier(table) {
		return nil, params.NewConfigurationError(fmt.Sprintf("invalid table identifier %q", table))
	}
	if !source.TableExists(table) {
		return fail(fmt.Sprintf("table %q does not exist", table), nil), nil
	}

	details := map[string]any{"table": table}
	var problems []string
	subChecks := 0

	if cols := set.Columns("duplicate_key_columns"); cols != nil {
		subChecks++
		groups, sizes, err := c.duplicates(ctx, source, table, cols)
		if err != nil {
			return nil, err
		}
		details["duplicate_groups"] = groups
		if groups > 0 {
			details["duplicate_group_sizes"] = sizes
			problems = append(problems, fmt.Sprintf("%d duplicate group(s) over (%s)",
				groups, strings.Join(cols, ", ")))
		}
	}

	for _, key := range []string{"price_column", "salary_column"} {
		if !set.Has(key) {
			continue
		}
		subChecks++
		column := set.Get(key)
		count, err := c.nonPositive(ctx, source, table, column)
		if err != nil {
			return nil, err
		}
		detailKey := "non_positive_" + strings.TrimSuffix(key, "_column")
		details[detailKey] = count
		if count > 0 {
			problems = append(problems, fmt.Sprintf("%d non-positive value(s) in %s", count, column))
		}
	}

	if set.Has("reference_column") && set.Has("parent_table") {
		subChecks++
		refColumn := set.Get("reference_column")
		parentTable := set.Get("parent_table")
		parentColumn := set.Get("parent_column")
		if parentColumn == "" {
			parentColumn = refColumn
		}
		count, err := c.orphans(ctx, source, table, refColumn, parentTable, parentColumn)
		if err != nil {
			return nil, err
		}
		details["orphaned_rows"] = count
		if count > 0 {
			problems = append(problems, fmt.Sprintf("%d orphaned row(s) referencing %s.%s",
				count, parentTable, parentColumn))
		}
	}

	details["sub_checks"] = subChecks
	if len(problems) > 0 {
		return fail(fmt.Sprintf("data quality issues in %s: %s", table, strings.Join(problems, "; ")), details), nil
	}
	return pass(fmt.Sprintf("data quality validation passed for %s (%d sub-check(s))", table, subChecks), details), nil
}

func (c *DataQualityCheck) duplicates(ctx context.Context, conn connector.Connector, table string, cols []string) (int, []int, error) {
	query, err := connector.DuplicateGroupsQuery(table, cols)
	if err != nil {
		return 0, nil, params.NewConfigurationError(err.Error())
	}
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return 0, nil, fmt.Errorf("detecting duplicates: %w", err)
	}
	sizes := make([]int, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if n, ok := toInt(row[len(row)-1]); ok {
			sizes = append(sizes, n)
		}
	}
	return len(rows), sizes, nil
}

func (c *DataQualityCheck) nonPositive(ctx context.Context, conn connector.Connector, table, column string) (int, error) {
	query, err := connector.NonPositiveCountQuery(table, column)
	if err != nil {
		return 0, params.NewConfigurationError(err.Error())
	}
	count, err := scalarQuery(ctx, conn, query)
	if err != nil {
		return 0, fmt.Errorf("detecting non-positive values: %w", err)
	}
	return count, nil
}

func (c *DataQualityCheck) orphans(ctx context.Context, conn connector.Connector, child, fkColumn, parent, parentColumn string) (int, error) {
	query, err := connector.OrphanCountQuery(child, fkColumn, parent, parentColumn)
	if err != nil {
		return 0, params.NewConfigurationError(err.Error())
	}
	count, err := scalarQuery(ctx, conn, query)
	if err != nil {
		return 0, fmt.Errorf("detecting orphaned rows: %w", err)
	}
	return count, nil
}
