package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDColumn(t *testing.T) {
	assert.Equal(t, "officer_id", OfficerUnit.IDColumn())
	assert.Equal(t, "dispatch_id", DispatchUnit.IDColumn())
}

func TestDefinitionKind(t *testing.T) {
	assert.Equal(t, NumericKind, FeatureDefinition{}.Kind())
	assert.Equal(t, CategoricalKind, FeatureDefinition{Categorical: true}.Kind())
	assert.Equal(t, LabelKind, FeatureDefinition{Label: true}.Kind())
}

func TestFeatureColumns(t *testing.T) {
	spec := TableSpec{
		Unit: DispatchUnit,
		Columns: []ColumnDef{
			{Name: "dispatch_id", Type: DispatchIDColumnType},
			{Name: "fake_today", Type: TimestampColumnType},
			{Name: "created_on", Type: TimestampColumnType},
			{Name: "DispatchHour", Type: NumericColumnType},
			{Name: "DispatchType", Type: CategoricalColumnType},
		},
	}
	assert.Equal(t, []ColumnDef{
		{Name: "DispatchHour", Type: NumericColumnType},
		{Name: "DispatchType", Type: CategoricalColumnType},
	}, spec.FeatureColumns())
	assert.Empty(t, TableSpec{Unit: OfficerUnit}.FeatureColumns())
}

func TestSnapshotRows(t *testing.T) {
	rows := SnapshotRows([]time.Time{
		time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2016, time.March, 9, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "01Jan2015", rows[0].Token)
	assert.Equal(t, 2, rows[1].Index)
	assert.Equal(t, "09Mar2016", rows[1].Token)
}
