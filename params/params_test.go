package params

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Set
	}{
		{
			name: "basic pairs",
			raw:  "source_table=products;target_table=new_products",
			want: Set{"source_table": "products", "target_table": "new_products"},
		},
		{
			name: "whitespace trimmed",
			raw:  " source_table = products ; target_table = new_products ",
			want: Set{"source_table": "products", "target_table": "new_products"},
		},
		{
			name: "keys case-normalized",
			raw:  "Source_Table=products;TARGET_TABLE=new_products",
			want: Set{"source_table": "products", "target_table": "new_products"},
		},
		{
			name: "last duplicate wins",
			raw:  "table=users;table=orders",
			want: Set{"table": "orders"},
		},
		{
			name: "value split on first equals only",
			raw:  "filter=a=b",
			want: Set{"filter": "a=b"},
		},
		{
			name: "segments without equals ignored",
			raw:  "tolerance;table=users;;",
			want: Set{"table": "users"},
		},
		{
			name: "empty input",
			raw:  "",
			want: Set{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.raw))
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	raw := "source_table=products;target_table=new_products;tolerance_percent=5"
	assert.Equal(t, Resolve(raw), Resolve(raw))
}

func TestMissing(t *testing.T) {
	set := Resolve("source_table=products")
	assert.Equal(t, []string{"target_table"}, set.Missing([]string{"source_table", "target_table"}))
	assert.Nil(t, set.Missing([]string{"source_table"}))

	// Present-but-empty counts as missing.
	set = Resolve("table=;column=id")
	assert.Equal(t, []string{"table"}, set.Missing([]string{"table", "column"}))
}

func TestFloat(t *testing.T) {
	set := Resolve("tolerance_percent=5.5")

	v, err := set.Float("tolerance_percent", 0)
	require.NoError(t, err)
	assert.Equal(t, 5.5, v)

	v, err = set.Float("absent", 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	set = Resolve("tolerance_percent=lots")
	_, err = set.Float("tolerance_percent", 0)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestColumns(t *testing.T) {
	set := Resolve("duplicate_key_columns=name, category ,sku")
	assert.Equal(t, []string{"name", "category", "sku"}, set.Columns("duplicate_key_columns"))
	assert.Nil(t, set.Columns("absent"))
}

func TestConfigurationError(t *testing.T) {
	err := NewMissingKeysError([]string{"source_table", "target_table"})
	assert.Contains(t, err.Error(), "source_table, target_table")
	assert.True(t, IsConfigurationError(err))
	assert.True(t, IsConfigurationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsConfigurationError(nil))
	assert.False(t, IsConfigurationError(fmt.Errorf("plain")))
}
