package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/pitfeat/core/materialize"
)

func TestSelectStages(t *testing.T) {
	tests := []struct {
		name         string
		createOnly   bool
		populateOnly bool
		expected     materialize.Stages
	}{
		{"both stages by default", false, false, materialize.AllStages},
		{"create only", true, false, materialize.Stages{Create: true}},
		{"populate only", false, true, materialize.Stages{Populate: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectStages(tt.createOnly, tt.populateOnly)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := selectStages(true, true)
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"materialize"},
		{"schema"},
		{"snapshots"},
		{"features", "list"},
		{"features", "classify"},
		{"features", "decode"},
		{"runs", "status"},
		{"runs", "list"},
		{"runs", "export"},
		{"runs", "clear"},
		{"runs", "migrate"},
		{"mcp"},
		{"version"},
	} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}
