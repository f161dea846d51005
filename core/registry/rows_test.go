package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/pitfeat/schema"
)

func TestRows(t *testing.T) {
	r := Default()
	toggles := map[schema.Unit]map[string]bool{
		schema.DispatchUnit: {"DispatchHour": true, "DispatchType": false},
	}
	rows := r.Rows(schema.DispatchUnit, toggles)
	require.Len(t, rows, len(r.Names(schema.DispatchUnit)))

	byName := map[string]schema.FeatureRow{}
	for _, row := range rows {
		assert.Equal(t, schema.DispatchUnit, row.Unit)
		byName[row.Name] = row
	}
	assert.True(t, byName["DispatchHour"].Enabled)
	assert.Equal(t, schema.NumericKind, byName["DispatchHour"].Kind)
	assert.False(t, byName["DispatchType"].Enabled)
	assert.True(t, byName["DispatchType"].Categorical)
	assert.Equal(t, schema.CategoricalKind, byName["DispatchType"].Kind)
	assert.Equal(t, schema.LabelKind, byName["LabelSustained"].Kind)

	all := r.Rows("", nil)
	assert.Len(t, all, r.Len())
	assert.Equal(t, schema.OfficerUnit, all[0].Unit)
}

func TestDecode(t *testing.T) {
	r := Default()
	assert.Equal(t, schema.DecodedName{
		Name: "DispatchHour", BaseName: "DispatchHour", TimeWindow: schema.DefaultTimeWindow, Registered: true,
	}, r.Decode("DispatchHour"))
	assert.Equal(t, schema.DecodedName{
		Name: "3yrTrafficStops", BaseName: "TrafficStops", TimeWindow: 3, Encoded: true,
	}, r.Decode("3yrTrafficStops"))
}
