package schema

import "time"

// FeatureRow is one registry entry as presented to the user.
type FeatureRow struct {
	Name        string      `json:"name" yaml:"name"`
	Unit        Unit        `json:"unit" yaml:"unit"`
	Family      Family      `json:"family" yaml:"family"`
	Kind        FeatureKind `json:"kind" yaml:"kind"`
	TimeWindow  int         `json:"time_window" yaml:"time_window"`
	Enabled     bool        `json:"enabled" yaml:"enabled"`
	Categorical bool        `json:"categorical" yaml:"categorical"`
	Label       bool        `json:"label" yaml:"label"`
}

// DecodedName is the outcome of decoding a feature name.
type DecodedName struct {
	Name       string `json:"name" yaml:"name"`
	BaseName   string `json:"base_name" yaml:"base_name"`
	TimeWindow int    `json:"time_window" yaml:"time_window"`
	Encoded    bool   `json:"encoded" yaml:"encoded"`
	Registered bool   `json:"registered" yaml:"registered"`
}

// SnapshotRow is one planned snapshot.
type SnapshotRow struct {
	Index     int       `json:"index" yaml:"index"`
	Token     string    `json:"token" yaml:"token"`
	FakeToday time.Time `json:"fake_today" yaml:"fake_today"`
}

// SnapshotRows numbers snapshots in execution order.
func SnapshotRows(snapshots []time.Time) []SnapshotRow {
	rows := make([]SnapshotRow, len(snapshots))
	for i, s := range snapshots {
		rows[i] = SnapshotRow{Index: i + 1, Token: s.Format(SnapshotLayout), FakeToday: s}
	}
	return rows
}
