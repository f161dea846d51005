package contract

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeatureFile holds the case-sensitive sections of the configuration.
// Viper folds map keys to lower case, so these are decoded with yaml.v3.
type FeatureFile struct {
	OfficerFeatures   map[string]bool   `yaml:"officer_features"`
	DispatchFeatures  map[string]bool   `yaml:"dispatch_features"`
	TimegatedLookback map[string]string `yaml:"timegated_feature_lookback_duration"`
}

// LoadFeatureFile reads the feature toggles from a YAML file.
// An empty path yields an empty FeatureFile.
func LoadFeatureFile(path string) (*FeatureFile, error) {
	if path == "" {
		return &FeatureFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature file %s: %w", path, err)
	}
	return ParseFeatureFile(data)
}

// ParseFeatureFile decodes feature toggles from YAML bytes, ignoring unrelated keys.
func ParseFeatureFile(data []byte) (*FeatureFile, error) {
	ff := &FeatureFile{}
	if len(bytes.TrimSpace(data)) == 0 {
		return ff, nil
	}
	if err := yaml.Unmarshal(data, ff); err != nil {
		return nil, fmt.Errorf("failed to decode feature toggles: %w", err)
	}
	return ff, nil
}
