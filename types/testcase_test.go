package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Priority
		wantErr bool
	}{
		{name: "high", input: "HIGH", want: PriorityHigh},
		{name: "lowercase", input: "low", want: PriorityLow},
		{name: "whitespace", input: "  MEDIUM ", want: PriorityMedium},
		{name: "empty defaults to medium", input: "", want: PriorityMedium},
		{name: "unknown", input: "URGENT", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEnableFlag(t *testing.T) {
	for _, s := range []string{"TRUE", "true", "Yes", "y", "1"} {
		v, err := ParseEnableFlag(s)
		require.NoError(t, err, "input %q", s)
		assert.True(t, v, "input %q", s)
	}
	for _, s := range []string{"FALSE", "no", "N", "0", ""} {
		v, err := ParseEnableFlag(s)
		require.NoError(t, err, "input %q", s)
		assert.False(t, v, "input %q", s)
	}
	_, err := ParseEnableFlag("maybe")
	require.Error(t, err)
}

func TestEnableFlagYAML(t *testing.T) {
	var cfg struct {
		A EnableFlag `yaml:"a"`
		B EnableFlag `yaml:"b"`
		C EnableFlag `yaml:"c"`
	}
	err := yaml.Unmarshal([]byte("a: true\nb: \"TRUE\"\nc: \"no\"\n"), &cfg)
	require.NoError(t, err)
	assert.True(t, bool(cfg.A))
	assert.True(t, bool(cfg.B))
	assert.False(t, bool(cfg.C))

	err = yaml.Unmarshal([]byte("a: \"sometimes\"\n"), &cfg)
	require.Error(t, err)
}

func TestGroupEnabledCount(t *testing.T) {
	g := Group{
		Name:    "validation",
		Enabled: true,
		Cases: []TestCase{
			{ID: "DV_001", Enabled: true},
			{ID: "DV_002", Enabled: false},
			{ID: "DV_003", Enabled: true},
		},
	}
	assert.Equal(t, 2, g.EnabledCount())

	g.Enabled = false
	assert.Equal(t, 0, g.EnabledCount(), "disabled group gates all cases")
}

func TestStatusIsFailure(t *testing.T) {
	assert.False(t, TestStatusPass.IsFailure())
	assert.False(t, TestStatusSkip.IsFailure())
	assert.True(t, TestStatusFail.IsFailure())
	assert.True(t, TestStatusError.IsFailure())
}
