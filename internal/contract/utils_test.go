package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/pitfeat/schema"
)

func TestGetPlainKindLabel(t *testing.T) {
	assert.Equal(t, "Categorical", GetPlainKindLabel(schema.CategoricalKind))
	assert.Equal(t, "Label", GetPlainKindLabel(schema.LabelKind))
	assert.Equal(t, "Numeric", GetPlainKindLabel(schema.NumericKind))
	assert.Equal(t, "Numeric", GetPlainKindLabel(""))
}

func TestGetColorKindLabel(t *testing.T) {
	for _, kind := range []schema.FeatureKind{schema.CategoricalKind, schema.LabelKind, schema.NumericKind} {
		assert.Contains(t, GetColorKindLabel(kind), GetPlainKindLabel(kind))
	}
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("officer_features"))
	assert.NoError(t, ValidateIdentifier("_tmp1"))
	assert.Error(t, ValidateIdentifier(""))
	assert.Error(t, ValidateIdentifier("1table"))
	assert.Error(t, ValidateIdentifier("features.officer"))
	assert.Error(t, ValidateIdentifier("x; drop table y"))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestGetRunDBFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetRunDBFilePath(), ".pitfeat_runs.db"))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"No", false, false},
		{"false", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTypedErrors(t *testing.T) {
	t.Run("unknown feature carries name", func(t *testing.T) {
		err := fmt.Errorf("resolving: %w", &UnknownFeatureError{Name: "Bogus"})
		assert.True(t, IsUnknownFeature(err))
		var ufe *UnknownFeatureError
		require.ErrorAs(t, err, &ufe)
		assert.Equal(t, "Bogus", ufe.Name)
		assert.Contains(t, err.Error(), "unknown feature: Bogus")
		assert.False(t, IsUnknownFeature(errors.New("other")))
	})

	t.Run("execution error unwraps driver error", func(t *testing.T) {
		driverErr := errors.New("relation does not exist")
		err := &ExecutionError{Table: "features.t", Statement: "UPDATE x", Err: driverErr}
		assert.ErrorIs(t, err, driverErr)
		assert.Contains(t, err.Error(), "features.t")
	})

	t.Run("missing lookback names feature", func(t *testing.T) {
		err := &MissingLookbackError{Feature: "TimeGatedDummyFeature"}
		assert.Contains(t, err.Error(), "TimeGatedDummyFeature")
	})
}

func TestRecordingExecutor(t *testing.T) {
	boom := errors.New("boom")
	rec := &RecordingExecutor{FailOn: "UPDATE", Err: boom}
	require.NoError(t, rec.Exec(t.Context(), "CREATE TABLE a"))
	require.NoError(t, rec.Exec(t.Context(), "INSERT INTO a"))
	assert.ErrorIs(t, rec.Exec(t.Context(), "UPDATE a"), boom)
	assert.Equal(t, []string{"CREATE TABLE a", "INSERT INTO a"}, rec.Statements)
	assert.Equal(t, []string{"INSERT INTO a"}, rec.Matching("INSERT"))
}
