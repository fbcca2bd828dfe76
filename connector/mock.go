package connector

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MockConnector is the deterministic in-memory backend used in tests and
// dry runs. It ships seeded with the fixture tables users (2 rows),
// orders (3 rows) and products (2 rows), and evaluates the statement
// shapes produced by the query builders against its in-memory rows.
type MockConnector struct {
	connected bool
	tables    []string
	columns   map[string][]Column
	rows      map[string][]Row
}

// NewMockConnector creates a mock connector with the default fixture
// tables.
func NewMockConnector() *MockConnector {
	m := &MockConnector{
		columns: make(map[string][]Column),
		rows:    make(map[string][]Row),
	}
	m.WithTable("users",
		[]Column{{Name: "id", Type: "INTEGER"}, {Name: "name", Type: "TEXT", Nullable: true}},
		Row{1, "Alice"}, Row{2, "Bob"})
	m.WithTable("orders",
		[]Column{{Name: "id", Type: "INTEGER"}, {Name: "label", Type: "TEXT", Nullable: true}},
		Row{101, "order1"}, Row{102, "order2"}, Row{103, "order3"})
	m.WithTable("products",
		[]Column{{Name: "id", Type: "INTEGER"}, {Name: "name", Type: "TEXT", Nullable: true}},
		Row{201, "laptop"}, Row{202, "mouse"})
	return m
}

// WithTable installs or replaces a table with the given columns and rows.
// Returns the connector for chaining when building fixtures.
func (m *MockConnector) WithTable(name string, cols []Column, rows ...Row) *MockConnector {
	if _, exists := m.columns[name]; !exists {
		m.tables = append(m.tables, name)
	}
	m.columns[name] = append([]Column(nil), cols...)
	m.rows[name] = append([]Row(nil), rows...)
	return m
}

// Connect always succeeds. Idempotent.
func (m *MockConnector) Connect(_ context.Context) error {
	m.connected = true
	return nil
}

// Disconnect is idempotent.
func (m *MockConnector) Disconnect() {
	m.connected = false
}

// Connected reports the connection state, for tests.
func (m *MockConnector) Connected() bool {
	return m.connected
}

// Tables returns a fresh copy of the table list.
func (m *MockConnector) Tables() []string {
	return append([]string(nil), m.tables...)
}

// TableExists matches exactly and case-sensitively; malformed names are
// simply not found.
func (m *MockConnector) TableExists(name string) bool {
	if !ValidIdentifier(name) {
		return false
	}
	_, ok := m.columns[name]
	return ok
}

// RowCount returns 0 for unknown tables.
func (m *MockConnector) RowCount(table string) int {
	if !m.TableExists(table) {
		return 0
	}
	return len(m.rows[table])
}

// Columns returns a copy of the column metadata.
func (m *MockConnector) Columns(table string) ([]Column, error) {
	if !m.TableExists(table) {
		return nil, fmt.Errorf("table %q does not exist", table)
	}
	return append([]Column(nil), m.columns[table]...), nil
}

// Statement shapes recognized by Query. These mirror the builders in
// querybuilder.go; anything else falls through to the generic mock reply,
// the same leniency the connector always had.
var (
	mockCountRe       = regexp.MustCompile(`(?i)^SELECT COUNT\(\*\) FROM (\w+)$`)
	mockNullCountRe   = regexp.MustCompile(`(?i)^SELECT COUNT\(\*\) FROM (\w+) WHERE (\w+) IS NULL$`)
	mockNonPositiveRe = regexp.MustCompile(`(?i)^SELECT COUNT\(\*\) FROM (\w+) WHERE (\w+) <= 0$`)
	mockDuplicatesRe  = regexp.MustCompile(`(?i)^SELECT ([\w, ]+), COUNT\(\*\) FROM (\w+) GROUP BY ([\w, ]+) HAVING COUNT\(\*\) > 1$`)
	mockOrphanRe      = regexp.MustCompile(`(?i)^SELECT COUNT\(\*\) FROM (\w+) WHERE (\w+) IS NOT NULL AND (\w+) NOT IN \(SELECT (\w+) FROM (\w+) WHERE (\w+) IS NOT NULL\)$`)
)

// Query evaluates the recognized statement shapes against the in-memory
// rows. It fails before Connect, like every backend.
func (m *MockConnector) Query(_ context.Context, query string) ([]Row, error) {
	if !m.connected {
		return nil, ErrNotConnected
	}
	query = strings.TrimSpace(query)

	if match := mockCountRe.FindStringSubmatch(query); match != nil {
		return []Row{{m.RowCount(match[1])}}, nil
	}
	if match := mockNullCountRe.FindStringSubmatch(query); match != nil {
		return m.countWhere(match[1], match[2], func(v any) bool { return v == nil })
	}
	if match := mockNonPositiveRe.FindStringSubmatch(query); match != nil {
		return m.countWhere(match[1], match[2], func(v any) bool {
			f, ok := toFloat(v)
			return ok && f <= 0
		})
	}
	if match := mockDuplicatesRe.FindStringSubmatch(query); match != nil && match[1] == match[3] {
		return m.duplicateGroups(match[2], splitColumns(match[1]))
	}
	if match := mockOrphanRe.FindStringSubmatch(query); match != nil && match[2] == match[3] && match[4] == match[6] {
		return m.orphanCount(match[1], match[2], match[5], match[4])
	}

	// Default mock response for anything the simulator does not model.
	return []Row{{"mock_result"}}, nil
}

func (m *MockConnector) countWhere(table, column string, pred func(any) bool) ([]Row, error) {
	idx, err := m.columnIndex(table, column)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, row := range m.rows[table] {
		if idx < len(row) && pred(row[idx]) {
			n++
		}
	}
	return []Row{{n}}, nil
}

func (m *MockConnector) duplicateGroups(table string, columns []string) ([]Row, error) {
	indexes := make([]int, len(columns))
	for i, col := range columns {
		idx, err := m.columnIndex(table, col)
		if err != nil {
			return nil, err
		}
		indexes[i] = idx
	}

	groups := make(map[string][]any)
	counts := make(map[string]int)
	for _, row := range m.rows[table] {
		values := make([]any, len(indexes))
		parts := make([]string, len(indexes))
		for i, idx := range indexes {
			if idx < len(row) {
				values[i] = row[idx]
			}
			parts[i] = fmt.Sprintf("%v", values[i])
		}
		key := strings.Join(parts, "\x1f")
		groups[key] = values
		counts[key]++
	}

	keys := make([]string, 0, len(counts))
	for key, n := range counts {
		if n > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var out []Row
	for _, key := range keys {
		out = append(out, append(Row{}, append(groups[key], counts[key])...))
	}
	return out, nil
}

func (m *MockConnector) orphanCount(child, fkColumn, parent, parentColumn string) ([]Row, error) {
	parentIdx, err := m.columnIndex(parent, parentColumn)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool)
	for _, row := range m.rows[parent] {
		if parentIdx < len(row) && row[parentIdx] != nil {
			known[fmt.Sprintf("%v", row[parentIdx])] = true
		}
	}
	return m.countWhere(child, fkColumn, func(v any) bool {
		return v != nil && !known[fmt.Sprintf("%v", v)]
	})
}

func (m *MockConnector) columnIndex(table, column string) (int, error) {
	cols, ok := m.columns[table]
	if !ok {
		return 0, fmt.Errorf("table %q does not exist", table)
	}
	for i, c := range cols {
		if c.Name == column {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q does not exist in table %q", column, table)
}

func splitColumns(list string) []string {
	var cols []string
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
