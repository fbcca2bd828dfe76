// Package connector abstracts access to one data store so that checks run
// unchanged against a real backend or a deterministic in-memory stand-in.
package connector

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Row is one result row returned by Query.
type Row []any

// Column describes one column of a table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// Connector is the capability surface every backend implements. Checks
// depend only on this interface, never on a specific backend's types or
// errors.
//
// Lifecycle: create, Connect, use, Disconnect. Connect is idempotent (a
// second call on a connected handle succeeds without side effects) and
// Disconnect never fails, even when already disconnected. A Connector is
// owned by a single check invocation and is not safe for concurrent use.
type Connector interface {
	// Connect establishes the connection. Returns a ConnectionError when
	// the backend is unreachable.
	Connect(ctx context.Context) error

	// Disconnect releases the connection. Idempotent.
	Disconnect()

	// Tables returns the table names as a fresh copy on every call;
	// callers cannot mutate connector-internal state through it.
	Tables() []string

	// TableExists reports whether name exactly matches an existing table.
	// Malformed identifiers (empty, SQL metacharacters) return false
	// rather than reaching a query.
	TableExists(name string) bool

	// RowCount returns the number of rows in table, or 0 when the table
	// does not exist or the name is malformed.
	RowCount(table string) int

	// Columns returns the column metadata for table, or an error when the
	// table does not exist.
	Columns(table string) ([]Column, error)

	// Query runs an arbitrary statement and returns the result rows.
	// Fails with a "not connected" error when invoked before Connect.
	Query(ctx context.Context, query string) ([]Row, error)
}

// Factory creates a fresh Connector handle per check invocation.
// Connectors are never shared across cases, so each case gets its own
// handle from the factory.
type Factory interface {
	New() Connector
	Backend() string
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to interpolate as a literal
// SQL identifier. This is the primary defense against malformed or injected
// identifiers reaching a query.
func ValidIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

// NewFactory builds a Factory from a DSN of the form "mock:" or
// "sqlite:<path>". The mock scheme yields the deterministic in-memory
// backend seeded with fixture tables; sqlite yields the real backend.
func NewFactory(dsn string) (Factory, error) {
	scheme, rest, _ := strings.Cut(dsn, ":")
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "mock":
		return mockFactory{}, nil
	case "sqlite":
		if rest == "" {
			return nil, fmt.Errorf("sqlite DSN requires a path, e.g. sqlite:data.db")
		}
		return sqliteFactory{path: rest}, nil
	}
	return nil, fmt.Errorf("unsupported connector DSN %q (expected mock: or sqlite:<path>)", dsn)
}

type mockFactory struct{}

func (mockFactory) New() Connector  { return NewMockConnector() }
func (mockFactory) Backend() string { return "mock" }

type sqliteFactory struct {
	path string
}

func (f sqliteFactory) New() Connector  { return NewSQLiteConnector(f.path) }
func (f sqliteFactory) Backend() string { return "sqlite" }
