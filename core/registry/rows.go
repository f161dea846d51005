package registry

import "github.com/huangsam/pitfeat/schema"

// Rows presents the definitions of a unit for listing. Enabled reflects the
// toggles of the definition's own unit.
func (r *Registry) Rows(unit schema.Unit, toggles map[schema.Unit]map[string]bool) []schema.FeatureRow {
	defs := r.Definitions(unit)
	rows := make([]schema.FeatureRow, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, schema.FeatureRow{
			Name:        d.Name,
			Unit:        d.Unit,
			Family:      d.Family,
			Kind:        d.Kind(),
			TimeWindow:  DecodeTimeWindow(d.Name),
			Enabled:     toggles[d.Unit][d.Name],
			Categorical: d.Categorical,
			Label:       d.Label,
		})
	}
	return rows
}

// Decode reports how a name decodes and whether the registry knows it.
func (r *Registry) Decode(name string) schema.DecodedName {
	key := ParseKey(name)
	_, known := r.defs[name]
	return schema.DecodedName{
		Name:       key.Name,
		BaseName:   key.BaseName,
		TimeWindow: key.Window,
		Encoded:    key.Encoded,
		Registered: known,
	}
}
