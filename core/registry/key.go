package registry

import "github.com/huangsam/pitfeat/schema"

// windowMarker is the literal at positions 1..2 of a name that encodes its window.
const windowMarker = "yr"

// FeatureKey is a feature name with its time window decoded.
type FeatureKey struct {
	Name     string // full registry key, unchanged
	BaseName string // name without the window prefix
	Window   int    // years
	Encoded  bool   // whether Window came from the name
}

// ParseKey decodes the time window a name carries in its prefix.
//
// Only the first three characters are inspected: a digit at index 0 followed by
// "yr" at indices 1..2 yields that digit as the window in years. Anything else,
// including "yr" further into the name and names shorter than three characters,
// falls back to schema.DefaultTimeWindow.
func ParseKey(name string) FeatureKey {
	key := FeatureKey{Name: name, BaseName: name, Window: schema.DefaultTimeWindow}
	if len(name) < 3 || name[1:3] != windowMarker {
		return key
	}
	c := name[0]
	if c < '0' || c > '9' {
		return key
	}
	key.Window = int(c - '0')
	key.BaseName = name[3:]
	key.Encoded = true
	return key
}

// DecodeTimeWindow returns the time window in years implied by a name.
func DecodeTimeWindow(name string) int {
	return ParseKey(name).Window
}
