package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
unit: officer
table-name: officer_features
officer_features:
  AcademyScore: true
  ArrestCount1Yr: false
  TimeGatedDummyFeature: true
dispatch_features:
  DispatchHour: true
timegated_feature_lookback_duration:
  TimeGatedDummyFeature: 6 months
`

func TestParseFeatureFile(t *testing.T) {
	ff, err := ParseFeatureFile([]byte(sampleConfig))
	require.NoError(t, err)

	// Case must survive decoding
	assert.Equal(t, map[string]bool{"AcademyScore": true, "ArrestCount1Yr": false, "TimeGatedDummyFeature": true}, ff.OfficerFeatures)
	assert.Equal(t, map[string]bool{"DispatchHour": true}, ff.DispatchFeatures)
	assert.Equal(t, "6 months", ff.TimegatedLookback["TimeGatedDummyFeature"])
}

func TestParseFeatureFileEmpty(t *testing.T) {
	ff, err := ParseFeatureFile([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, ff.OfficerFeatures)
}

func TestParseFeatureFileInvalid(t *testing.T) {
	_, err := ParseFeatureFile([]byte("officer_features: [not, a, map"))
	assert.Error(t, err)
}

func TestLoadFeatureFile(t *testing.T) {
	ff, err := LoadFeatureFile("")
	require.NoError(t, err)
	assert.NotNil(t, ff)

	path := filepath.Join(t.TempDir(), "pitfeat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))
	ff, err = LoadFeatureFile(path)
	require.NoError(t, err)
	assert.True(t, ff.OfficerFeatures["AcademyScore"])

	_, err = LoadFeatureFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
