package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/pitfeat/core/features"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

func testContext() schema.TemporalContext {
	return schema.TemporalContext{
		FromDate:    "2020-01-01",
		ToDate:      "2020-01-31",
		FakeToday:   time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
		TableSchema: "features",
		TableName:   "feature_table",
		LookbackDurations: map[string]string{
			"TimeGatedDummyFeature": "6 months",
		},
	}
}

func TestDefaultRegistryContents(t *testing.T) {
	r := Default()
	officer := r.Names(schema.OfficerUnit)
	dispatch := r.Names(schema.DispatchUnit)

	assert.Len(t, officer, 12)
	assert.Len(t, dispatch, 99)
	assert.Equal(t, len(officer)+len(dispatch), r.Len())
	assert.IsNonDecreasing(t, officer)
	assert.IsNonDecreasing(t, dispatch)
	assert.Same(t, r, Default())
}

func TestResolveEveryName(t *testing.T) {
	r := Default()
	tc := testContext()
	for _, def := range r.Definitions("") {
		t.Run(def.Name, func(t *testing.T) {
			unit, err := r.Resolve(def.Name, tc)
			require.NoError(t, err)
			assert.Equal(t, def.Name, unit.Spec().FeatureName)
			assert.Equal(t, def.Unit, unit.Spec().Unit)

			rendered, ok := unit.(*features.Unit)
			require.True(t, ok)
			stmt, err := rendered.Statement()
			require.NoError(t, err)
			assert.Contains(t, stmt, `UPDATE "features"."feature_table" AS feat`)
			assert.NotContains(t, stmt, "<no value>")
		})
	}
}

func TestResolveReturnsFreshUnits(t *testing.T) {
	r := Default()
	a, err := r.Resolve("DispatchHour", testContext())
	require.NoError(t, err)
	b, err := r.Resolve("DispatchHour", testContext())
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestResolveUnknownFeature(t *testing.T) {
	r := Default()
	for _, name := range []string{"NotAFeature", "", "dispatchhour", "3yrTrafficStops"} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(name, testContext())
			require.Error(t, err)
			var ufe *contract.UnknownFeatureError
			require.ErrorAs(t, err, &ufe)
			assert.Equal(t, name, ufe.Name)
		})
	}
}

func TestResolveTimeGatedWithoutLookback(t *testing.T) {
	tc := testContext()
	tc.LookbackDurations = nil
	_, err := Default().Resolve("TimeGatedDummyFeature", tc)
	var mle *contract.MissingLookbackError
	assert.ErrorAs(t, err, &mle)
}

func TestSpecTraits(t *testing.T) {
	r := Default()
	tests := []struct {
		name        string
		categorical bool
		label       bool
		unit        schema.Unit
		window      int
	}{
		{"DispatchType", true, false, schema.DispatchUnit, 15},
		{"DispatchSubType", true, false, schema.DispatchUnit, 15},
		{"LabelSustained", false, true, schema.DispatchUnit, 15},
		{"LabelUnjustified", false, true, schema.DispatchUnit, 15},
		{"LabelPreventable", false, true, schema.DispatchUnit, 15},
		{"DispatchHour", false, false, schema.DispatchUnit, 15},
		{"AcademyScore", false, false, schema.OfficerUnit, 15},
		{"ArrestCount1Yr", false, false, schema.OfficerUnit, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := r.Spec(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.categorical, spec.IsCategorical)
			assert.Equal(t, tt.label, spec.IsLabel)
			assert.Equal(t, tt.unit, spec.Unit)
			assert.Equal(t, tt.window, spec.TimeWindow)
		})
	}
}

func TestAliasedDefinitions(t *testing.T) {
	r := Default()

	month, err := r.Lookup("OfficersDispatchedAverageUnjustifiedIncidentsInPast1Month")
	require.NoError(t, err)
	sixMonths, err := r.Lookup("OfficersDispatchedAverageUnjustifiedIncidentsInPast6Months")
	require.NoError(t, err)
	assert.Equal(t, sixMonths.Family, month.Family)
	assert.Equal(t, sixMonths.Params, month.Params)

	justifiedMonth, err := r.Lookup("OfficersDispatchedAverageJustifiedIncidentsInPast1Month")
	require.NoError(t, err)
	assert.Equal(t, "1 month", justifiedMonth.Params.Interval)

	irregular, err := r.Lookup("AverageOfficerDispatchesWithin100mRadiusIn1PastHour")
	require.NoError(t, err)
	assert.Equal(t, "1 hour", irregular.Params.Interval)
	_, err = r.Lookup("AverageOfficerDispatchesWithin100mRadiusInPast1Hour")
	assert.True(t, contract.IsUnknownFeature(err))
}

func TestNewRejectsInconsistentDefinitions(t *testing.T) {
	good := schema.FeatureDefinition{Name: "A", Unit: schema.DispatchUnit, Family: schema.DispatchTimePartFamily}

	_, err := New([]schema.FeatureDefinition{good, good})
	assert.ErrorContains(t, err, "duplicate")

	noName := good
	noName.Name = ""
	_, err = New([]schema.FeatureDefinition{noName})
	assert.Error(t, err)

	badUnit := good
	badUnit.Unit = "precinct"
	_, err = New([]schema.FeatureDefinition{badUnit})
	assert.ErrorIs(t, err, contract.ErrUnknownUnit)

	badFamily := good
	badFamily.Family = "made_up"
	_, err = New([]schema.FeatureDefinition{badFamily})
	assert.Error(t, err)

	r, err := New([]schema.FeatureDefinition{good})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, r.Names(schema.DispatchUnit))
	assert.Empty(t, r.Names(schema.OfficerUnit))
}

func TestDefinitionsOrdering(t *testing.T) {
	r := Default()
	all := r.Definitions("")
	require.Len(t, all, r.Len())
	assert.Equal(t, schema.OfficerUnit, all[0].Unit)
	assert.Equal(t, schema.DispatchUnit, all[len(all)-1].Unit)
	assert.Len(t, r.Definitions(schema.OfficerUnit), 12)
}
