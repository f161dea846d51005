package registry

import "github.com/huangsam/pitfeat/schema"

// Classify partitions names along the categorical and label axes using only
// definition metadata. Any unknown name aborts classification.
// Each bucket keeps the input order; duplicate names are collapsed.
func (r *Registry) Classify(names []string) (schema.Classification, error) {
	out := schema.Classification{
		Categorical: []string{},
		Label:       []string{},
		Numeric:     []string{},
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		def, err := r.Lookup(name)
		if err != nil {
			return schema.Classification{}, err
		}
		if def.Categorical {
			out.Categorical = append(out.Categorical, name)
		} else {
			out.Numeric = append(out.Numeric, name)
		}
		if def.Label {
			out.Label = append(out.Label, name)
		}
	}
	return out, nil
}

// CategoricalFeatures returns the categorical subset of names.
func (r *Registry) CategoricalFeatures(names []string) ([]string, error) {
	c, err := r.Classify(names)
	if err != nil {
		return nil, err
	}
	return c.Categorical, nil
}

// LabelFeatures returns the label subset of names.
func (r *Registry) LabelFeatures(names []string) ([]string, error) {
	c, err := r.Classify(names)
	if err != nil {
		return nil, err
	}
	return c.Label, nil
}
