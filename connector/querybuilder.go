package connector

import (
	"fmt"
	"strings"
)

// Query builders used by the check implementations. Every identifier is
// validated before it is interpolated; the statement shapes here are the
// ones MockConnector knows how to evaluate, and plain enough for any SQL
// backend.

// CountQuery returns the row count statement for table.
func CountQuery(table string) (string, error) {
	if err := checkIdents(table); err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table), nil
}

// NullCountQuery counts rows where column is NULL.
func NullCountQuery(table, column string) (string, error) {
	if err := checkIdents(table, column); err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IS NULL", table, column), nil
}

// NonPositiveCountQuery counts rows where column is zero or negative.
func NonPositiveCountQuery(table, column string) (string, error) {
	if err := checkIdents(table, column); err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s <= 0", table, column), nil
}

// DuplicateGroupsQuery returns one row per group of duplicate values over
// columns, each row holding the column values followed by the group size.
func DuplicateGroupsQuery(table string, columns []string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("duplicate group query requires at least one column")
	}
	if err := checkIdents(append([]string{table}, columns...)...); err != nil {
		return "", err
	}
	cols := strings.Join(columns, ", ")
	return fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s HAVING COUNT(*) > 1", cols, table, cols), nil
}

// OrphanCountQuery counts child rows whose foreign key value has no match
// in the parent table. NULL foreign keys are not orphans.
func OrphanCountQuery(child, fkColumn, parent, parentColumn string) (string, error) {
	if err := checkIdents(child, fkColumn, parent, parentColumn); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s IS NOT NULL AND %s NOT IN (SELECT %s FROM %s WHERE %s IS NOT NULL)",
		child, fkColumn, fkColumn, parentColumn, parent, parentColumn), nil
}

func checkIdents(names ...string) error {
	for _, name := range names {
		if !ValidIdentifier(name) {
			return fmt.Errorf("invalid SQL identifier %q", name)
		}
	}
	return nil
}
