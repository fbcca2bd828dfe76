package connector

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConnector is the real database backend, backed by database/sql and
// the go-sqlite3 driver. SQLite stands in for the production store here;
// any other SQL backend plugs in at the Factory seam.
type SQLiteConnector struct {
	path string
	db   *sql.DB
}

// NewSQLiteConnector creates a connector for the database file at path.
// No connection is made until Connect.
func NewSQLiteConnector(path string) *SQLiteConnector {
	return &SQLiteConnector{path: path}
}

// Connect opens the database and verifies it is reachable. Calling it on
// an already-connected handle is a no-op.
func (c *SQLiteConnector) Connect(ctx context.Context) error {
	if c.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite3", c.path)
	if err != nil {
		return NewConnectionError("sqlite", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return NewConnectionError("sqlite", err)
	}

	// SQLite supports one writer at a time; a single connection also keeps
	// the busy_timeout pragma effective for every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return NewConnectionError("sqlite", err)
	}

	c.db = db
	return nil
}

// Disconnect closes the database. Idempotent.
func (c *SQLiteConnector) Disconnect() {
	if c.db == nil {
		return
	}
	c.db.Close()
	c.db = nil
}

// Tables lists the user tables in name order. Returns nil before Connect.
func (c *SQLiteConnector) Tables() []string {
	if c.db == nil {
		return nil
	}
	rows, err := c.db.Query(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil
		}
		tables = append(tables, name)
	}
	return tables
}

// TableExists matches exactly and case-sensitively.
func (c *SQLiteConnector) TableExists(name string) bool {
	if c.db == nil || !ValidIdentifier(name) {
		return false
	}
	var n int
	err := c.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	return err == nil && n > 0
}

// RowCount returns 0 for unknown or malformed table names.
func (c *SQLiteConnector) RowCount(table string) int {
	if !c.TableExists(table) {
		return 0
	}
	var n int
	if err := c.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Columns reads column metadata via PRAGMA table_info.
func (c *SQLiteConnector) Columns(table string) ([]Column, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	if !c.TableExists(table) {
		return nil, fmt.Errorf("table %q does not exist", table)
	}
	rows, err := c.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", table, err)
		}
		cols = append(cols, Column{Name: name, Type: ctype, Nullable: notNull == 0})
	}
	return cols, rows.Err()
}

// Query runs an arbitrary statement. Fails before Connect.
func (c *SQLiteConnector) Query(ctx context.Context, query string) ([]Row, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make(Row, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	return out, rows.Err()
}
