package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockConnectorLifecycle(t *testing.T) {
	m := NewMockConnector()
	ctx := context.Background()

	// Query before connect fails with a "not connected" message.
	_, err := m.Query(ctx, "SELECT * FROM users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")

	require.NoError(t, m.Connect(ctx))
	assert.True(t, m.Connected())

	// Second connect is a no-op success.
	require.NoError(t, m.Connect(ctx))
	assert.True(t, m.Connected())

	m.Disconnect()
	assert.False(t, m.Connected())

	// Disconnecting again does not panic and leaves state unchanged.
	m.Disconnect()
	assert.False(t, m.Connected())
}

func TestMockConnectorTables(t *testing.T) {
	m := NewMockConnector()

	tables := m.Tables()
	assert.Equal(t, []string{"users", "orders", "products"}, tables)

	// Mutating the returned slice must not affect the connector.
	tables[0] = "mutated"
	assert.Equal(t, []string{"users", "orders", "products"}, m.Tables())
}

func TestMockConnectorTableExists(t *testing.T) {
	m := NewMockConnector()

	assert.True(t, m.TableExists("users"))
	assert.False(t, m.TableExists("Users"), "match is case-sensitive")
	assert.False(t, m.TableExists(""))
	assert.False(t, m.TableExists("users; DROP TABLE users"))
	assert.False(t, m.TableExists("users'--"))
}

func TestMockConnectorRowCount(t *testing.T) {
	m := NewMockConnector()

	assert.Equal(t, 2, m.RowCount("users"))
	assert.Equal(t, 3, m.RowCount("orders"))
	assert.Equal(t, 2, m.RowCount("products"))
	assert.Equal(t, 0, m.RowCount("missing"))
	assert.Equal(t, 0, m.RowCount(""))
	assert.Equal(t, 0, m.RowCount("users WHERE 1=1"))
}

func TestMockConnectorColumns(t *testing.T) {
	m := NewMockConnector()

	cols, err := m.Columns("users")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name)

	// Mutating the returned slice must not leak into the mock's schema.
	cols[0].Name = "mutated"
	cols2, err := m.Columns("users")
	require.NoError(t, err)
	assert.Equal(t, "id", cols2[0].Name)

	_, err = m.Columns("missing")
	require.Error(t, err)
}

func TestMockConnectorCountQueries(t *testing.T) {
	ctx := context.Background()
	m := NewMockConnector().WithTable("employees",
		[]Column{{Name: "id", Type: "INTEGER"}, {Name: "salary", Type: "NUMERIC", Nullable: true}},
		Row{1, 1000}, Row{2, nil}, Row{3, -50}, Row{4, 0})
	require.NoError(t, m.Connect(ctx))

	q, err := CountQuery("employees")
	require.NoError(t, err)
	rows, err := m.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []Row{{4}}, rows)

	q, err = NullCountQuery("employees", "salary")
	require.NoError(t, err)
	rows, err = m.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []Row{{1}}, rows)

	q, err = NonPositiveCountQuery("employees", "salary")
	require.NoError(t, err)
	rows, err = m.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []Row{{2}}, rows)
}

func TestMockConnectorDuplicateGroups(t *testing.T) {
	ctx := context.Background()
	m := NewMockConnector().WithTable("items",
		[]Column{{Name: "name", Type: "TEXT"}, {Name: "category", Type: "TEXT"}},
		Row{"widget", "a"}, Row{"widget", "a"}, Row{"gadget", "b"})
	require.NoError(t, m.Connect(ctx))

	q, err := DuplicateGroupsQuery("items", []string{"name", "category"})
	require.NoError(t, err)
	rows, err := m.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, rows, 1, "exactly one duplicate group")
	assert.Equal(t, Row{"widget", "a", 2}, rows[0])
}

func TestMockConnectorOrphanCount(t *testing.T) {
	ctx := context.Background()
	m := NewMockConnector().
		WithTable("departments",
			[]Column{{Name: "id", Type: "INTEGER"}},
			Row{1}, Row{2}).
		WithTable("staff",
			[]Column{{Name: "id", Type: "INTEGER"}, {Name: "department_id", Type: "INTEGER", Nullable: true}},
			Row{1, 1}, Row{2, 9}, Row{3, nil})
	require.NoError(t, m.Connect(ctx))

	q, err := OrphanCountQuery("staff", "department_id", "departments", "id")
	require.NoError(t, err)
	rows, err := m.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []Row{{1}}, rows, "NULL foreign keys are not orphans")
}

func TestMockConnectorUnrecognizedQuery(t *testing.T) {
	ctx := context.Background()
	m := NewMockConnector()
	require.NoError(t, m.Connect(ctx))

	rows, err := m.Query(ctx, "SELECT version()")
	require.NoError(t, err)
	assert.Equal(t, []Row{{"mock_result"}}, rows)
}
