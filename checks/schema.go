package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbaudit/datacheck/connector"
	"github.com/dbaudit/datacheck/params"
)

// SchemaCheck compares the column name/type sets of a source and a target
// table. The optional "columns" parameter restricts the comparison to the
// listed columns.
type SchemaCheck struct{}

func (c *SchemaCheck) Category() string       { return CategorySchema }
func (c *SchemaCheck) RequiredKeys() []string { return []string{"source_table", "target_table"} }
func (c *SchemaCheck) RequiresTarget() bool   { return true }

func (c *SchemaCheck) Run(ctx context.Context, set params.Set, source, target connector.Connector) (*Result, error) {
	sourceTable := set.Get("source_table")
	targetTable := set.Get("target_table")
	for _, name := range []string{sourceTable, targetTable} {
		if !connector.ValidIdentifier(name) {
			return nil, params.NewConfigurationError(fmt.Sprintf("invalid table identifier %q", name))
		}
	}

	if !source.TableExists(sourceTable) {
		return fail(fmt.Sprintf("source table %q does not exist", sourceTable), nil), nil
	}
	if !target.TableExists(targetTable) {
		return fail(fmt.Sprintf("target table %q does not exist", targetTable), nil), nil
	}

	sourceCols, err := source.Columns(sourceTable)
	if err != nil {
		return nil, fmt.Errorf("reading source schema: %w", err)
	}
	targetCols, err := target.Columns(targetTable)
	if err != nil {
		return nil, fmt.Errorf("reading target schema: %w", err)
	}

	if restrict := set.Columns("columns"); restrict != nil {
		sourceCols = filterColumns(sourceCols, restrict)
		targetCols = filterColumns(targetCols, restrict)
	}

	sourceByName := columnMap(sourceCols)
	targetByName := columnMap(targetCols)

	var missingInTarget, extraInTarget, typeMismatches []string
	for _, col := range sourceCols {
		other, ok := targetByName[col.Name]
		if !ok {
			missingInTarget = append(missingInTarget, fmt.Sprintf("%s (%s)", col.Name, col.Type))
			continue
		}
		if !strings.EqualFold(col.Type, other.Type) || col.Nullable != other.Nullable {
			typeMismatches = append(typeMismatches,
				fmt.Sprintf("%s: %s != %s", col.Name, describeColumn(col), describeColumn(other)))
		}
	}
	for _, col := range targetCols {
		if _, ok := sourceByName[col.Name]; !ok {
			extraInTarget = append(extraInTarget, fmt.Sprintf("%s (%s)", col.Name, col.Type))
		}
	}

	details := map[string]any{
		"source_table":   sourceTable,
		"target_table":   targetTable,
		"source_columns": len(sourceCols),
		"target_columns": len(targetCols),
	}

	differences := len(missingInTarget) + len(extraInTarget) + len(typeMismatches)
	if differences == 0 {
		return pass(fmt.Sprintf("schema validation passed for %s vs %s", sourceTable, targetTable), details), nil
	}

	if missingInTarget != nil {
		details["missing_in_target"] = missingInTarget
	}
	if extraInTarget != nil {
		details["extra_in_target"] = extraInTarget
	}
	if typeMismatches != nil {
		details["type_mismatches"] = typeMismatches
	}
	return fail(fmt.Sprintf("%d schema difference(s) found between %s and %s",
		differences, sourceTable, targetTable), details), nil
}

func columnMap(cols []connector.Column) map[string]connector.Column {
	out := make(map[string]connector.Column, len(cols))
	for _, col := range cols {
		out[col.Name] = col
	}
	return out
}

func filterColumns(cols []connector.Column, keep []string) []connector.Column {
	wanted := make(map[string]bool, len(keep))
	for _, name := range keep {
		wanted[name] = true
	}
	var out []connector.Column
	for _, col := range cols {
		if wanted[col.Name] {
			out = append(out, col)
		}
	}
	return out
}

func describeColumn(col connector.Column) string {
	if col.Nullable {
		return col.Type
	}
	return col.Type + " NOT NULL"
}
