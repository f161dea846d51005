package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/pitfeat/internal/contract"
	mcp_internal "github.com/huangsam/pitfeat/internal/mcp"
	"github.com/huangsam/pitfeat/schema"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Unit:               schema.DispatchUnit,
		TableSchema:        "features",
		TableName:          "dispatch_features",
		RawDataFromDate:    "2020-01-01",
		RawDataToDate:      "2020-01-31",
		OfficerFeatures:    map[string]bool{"AcademyScore": true},
		DispatchFeatures:   map[string]bool{"DispatchHour": true},
		TimegatedLookback:  map[string]string{},
		FakeTodayStart:     time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
		FakeTodayEnd:       time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC),
		FakeTodayFrequency: contract.Period{Months: 6},
		PredictionWindows:  []string{"1 year"},
	}
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		tool     string
		args     map[string]any
		contains string
	}{
		{"classify_features", map[string]any{"names": " , "}, "at least one feature"},
		{"classify_features", map[string]any{"names": "DispatchHour,NoSuchFeature"}, "unknown feature: NoSuchFeature"},
		{"decode_feature_name", map[string]any{}, "name is required"},
		{"list_features", map[string]any{"unit": "precinct"}, "unknown unit"},
		{"plan_snapshots", map[string]any{"frequency": "2 hours"}, "invalid cohort plan"},
		{"plan_snapshots", map[string]any{"fake_today_start": "2015-01-01"}, "invalid cohort plan"},
		{"preview_schema", map[string]any{"unit": "precinct"}, "invalid preview parameters"},
		{"preview_schema", map[string]any{"features": "AcademyScore"}, "belongs to unit officer"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.contains, func(t *testing.T) {
			res := callTool(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "Result should be marked as an error")
			assert.Contains(t, resultText(t, res), tt.contains)
		})
	}
}

func TestListFeatures(t *testing.T) {
	res := callTool(t, "list_features", map[string]any{"unit": "dispatch"})
	require.False(t, res.IsError)

	var rows []schema.FeatureRow
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Equal(t, schema.DispatchUnit, row.Unit)
		assert.Equal(t, row.Name == "DispatchHour", row.Enabled, row.Name)
	}
}

func TestClassifyFeatures(t *testing.T) {
	res := callTool(t, "classify_features", map[string]any{"names": "DispatchHour, DispatchType,LabelSustained"})
	require.False(t, res.IsError)

	var classes schema.Classification
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &classes))
	assert.Equal(t, []string{"DispatchType"}, classes.Categorical)
	assert.Equal(t, []string{"LabelSustained"}, classes.Label)
	assert.ElementsMatch(t, []string{"DispatchHour", "LabelSustained"}, classes.Numeric)
}

func TestDecodeFeatureName(t *testing.T) {
	res := callTool(t, "decode_feature_name", map[string]any{"name": "3yrTrafficStops"})
	require.False(t, res.IsError)

	var decoded schema.DecodedName
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))
	assert.Equal(t, "TrafficStops", decoded.BaseName)
	assert.Equal(t, 3, decoded.TimeWindow)
	assert.True(t, decoded.Encoded)
	assert.False(t, decoded.Registered)
}

func TestPlanSnapshots(t *testing.T) {
	t.Run("base plan", func(t *testing.T) {
		res := callTool(t, "plan_snapshots", map[string]any{})
		require.False(t, res.IsError, resultText(t, res))

		var rows []schema.SnapshotRow
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
		require.Len(t, rows, 3)
		assert.Equal(t, "01Jan2015", rows[0].Token)
		assert.Equal(t, "01Jul2015", rows[1].Token)
		assert.Equal(t, 3, rows[2].Index)
	})

	t.Run("overrides", func(t *testing.T) {
		res := callTool(t, "plan_snapshots", map[string]any{
			"fake_today_start": "01Jan2020",
			"fake_today_end":   "01Mar2020",
			"frequency":        "1 month",
		})
		require.False(t, res.IsError, resultText(t, res))

		var rows []schema.SnapshotRow
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
		assert.Len(t, rows, 3)
	})
}

func TestPreviewSchema(t *testing.T) {
	res := callTool(t, "preview_schema", map[string]any{"features": "DispatchHour,DispatchType"})
	require.False(t, res.IsError, resultText(t, res))

	var preview struct {
		Table      schema.TableSpec `json:"table"`
		Statements []string         `json:"statements"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &preview))
	assert.Equal(t, "dispatch_features", preview.Table.Name)
	assert.Len(t, preview.Table.Columns, 5)
	require.Len(t, preview.Statements, 3)
	assert.Contains(t, preview.Statements[0], "DROP TABLE IF EXISTS")
	assert.Contains(t, preview.Statements[2], "BETWEEN '2020-01-01' AND '2020-01-31'")

	officer := callTool(t, "preview_schema", map[string]any{"unit": "officer"})
	require.False(t, officer.IsError, resultText(t, officer))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, officer)), &preview))
	assert.Equal(t, "officer_features", preview.Table.Name)
	assert.True(t, preview.Table.Unlogged)
	assert.Len(t, preview.Statements, 5)
}
