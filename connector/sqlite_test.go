package connector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *SQLiteConnector {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	c := NewSQLiteConnector(path)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(c.Disconnect)

	stmts := []string{
		`CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT, price NUMERIC)`,
		`CREATE TABLE new_products (id INTEGER PRIMARY KEY, name TEXT, price NUMERIC)`,
		`INSERT INTO products VALUES (1, 'laptop', 999.0), (2, 'mouse', 25.0)`,
		`INSERT INTO new_products VALUES (1, 'laptop', 999.0)`,
	}
	for _, stmt := range stmts {
		_, err := c.db.Exec(stmt)
		require.NoError(t, err)
	}
	return c
}

func TestSQLiteConnectorLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycle.db")
	c := NewSQLiteConnector(path)

	_, err := c.Query(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Connect(context.Background()), "second connect is a no-op")

	c.Disconnect()
	c.Disconnect() // idempotent
}

func TestSQLiteConnectorTables(t *testing.T) {
	c := newTestDB(t)
	assert.Equal(t, []string{"new_products", "products"}, c.Tables())
}

func TestSQLiteConnectorTableExists(t *testing.T) {
	c := newTestDB(t)

	assert.True(t, c.TableExists("products"))
	assert.False(t, c.TableExists("Products"))
	assert.False(t, c.TableExists(""))
	assert.False(t, c.TableExists("products; DROP TABLE products"))
}

func TestSQLiteConnectorRowCount(t *testing.T) {
	c := newTestDB(t)

	assert.Equal(t, 2, c.RowCount("products"))
	assert.Equal(t, 1, c.RowCount("new_products"))
	assert.Equal(t, 0, c.RowCount("missing"))
	assert.Equal(t, 0, c.RowCount("products'--"))
}

func TestSQLiteConnectorColumns(t *testing.T) {
	c := newTestDB(t)

	cols, err := c.Columns("products")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "INTEGER", cols[0].Type)
	assert.Equal(t, "price", cols[2].Name)

	_, err = c.Columns("missing")
	require.Error(t, err)
}

func TestSQLiteConnectorQuery(t *testing.T) {
	c := newTestDB(t)
	ctx := context.Background()

	q, err := CountQuery("products")
	require.NoError(t, err)
	rows, err := c.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0][0])

	q, err = NullCountQuery("new_products", "price")
	require.NoError(t, err)
	rows, err = c.Query(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows[0][0])
}

func TestNewFactory(t *testing.T) {
	f, err := NewFactory("mock:")
	require.NoError(t, err)
	assert.Equal(t, "mock", f.Backend())
	assert.NotSame(t, f.New(), f.New(), "every case gets its own handle")

	f, err = NewFactory("sqlite:" + filepath.Join(t.TempDir(), "f.db"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", f.Backend())

	_, err = NewFactory("sqlite:")
	require.Error(t, err)

	_, err = NewFactory("postgres://localhost")
	require.Error(t, err)
}

func TestValidIdentifier(t *testing.T) {
	for _, ok := range []string{"users", "new_products", "_tmp", "Table1"} {
		assert.True(t, ValidIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "1table", "users;", "a b", "users'--", "a.b"} {
		assert.False(t, ValidIdentifier(bad), bad)
	}
}
