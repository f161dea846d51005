// Package registry maps feature names to their static definitions and resolves
// them into context-bound computation units.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/huangsam/pitfeat/core/features"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

// Registry is an immutable index of feature definitions keyed by name.
type Registry struct {
	defs  map[string]schema.FeatureDefinition
	names map[schema.Unit][]string
}

var _ contract.Resolver = &Registry{} // Compile-time check

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of every built-in feature. It is built once.
func Default() *Registry {
	defaultOnce.Do(func() {
		defs := append(officerDefinitions(), dispatchDefinitions()...)
		r, err := New(defs)
		if err != nil {
			panic(fmt.Sprintf("built-in feature registry is inconsistent: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// New builds a registry from definitions. Every name must appear exactly once
// and belong to a known unit and family.
func New(defs []schema.FeatureDefinition) (*Registry, error) {
	r := &Registry{
		defs:  make(map[string]schema.FeatureDefinition, len(defs)),
		names: make(map[schema.Unit][]string),
	}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("feature definition without a name in family %s", def.Family)
		}
		if _, dup := r.defs[def.Name]; dup {
			return nil, fmt.Errorf("duplicate feature definition: %s", def.Name)
		}
		if _, ok := schema.ValidUnits[def.Unit]; !ok {
			return nil, fmt.Errorf("feature %s: %w %q", def.Name, contract.ErrUnknownUnit, def.Unit)
		}
		if !features.HasFamily(def.Family) {
			return nil, fmt.Errorf("feature %s: unknown family %q", def.Name, def.Family)
		}
		r.defs[def.Name] = def
		r.names[def.Unit] = append(r.names[def.Unit], def.Name)
	}
	for unit := range r.names {
		slices.Sort(r.names[unit])
	}
	return r, nil
}

// Len returns the number of registered features.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Lookup returns the static definition of a feature.
func (r *Registry) Lookup(name string) (schema.FeatureDefinition, error) {
	def, ok := r.defs[name]
	if !ok {
		return schema.FeatureDefinition{}, &contract.UnknownFeatureError{Name: name}
	}
	return def, nil
}

// Spec returns a fresh descriptor for a feature. The time window is decoded
// from the name before the definition is consulted.
func (r *Registry) Spec(name string) (schema.FeatureSpec, error) {
	key := ParseKey(name)
	def, err := r.Lookup(name)
	if err != nil {
		return schema.FeatureSpec{}, err
	}
	return schema.FeatureSpec{
		FeatureName:   name,
		IsCategorical: def.Categorical,
		IsLabel:       def.Label,
		TimeWindow:    key.Window,
		Unit:          def.Unit,
		Family:        def.Family,
	}, nil
}

// Resolve constructs the computation unit of a feature bound to tc.
// Nothing is cached; every call yields a new unit.
func (r *Registry) Resolve(name string, tc schema.TemporalContext) (contract.FeatureUnit, error) {
	spec, err := r.Spec(name)
	if err != nil {
		return nil, err
	}
	def := r.defs[name]
	unit, err := features.New(def, spec, tc)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve feature %s: %w", name, err)
	}
	return unit, nil
}

// Names returns every registered name of a unit, sorted.
func (r *Registry) Names(unit schema.Unit) []string {
	return slices.Clone(r.names[unit])
}

// Definitions returns the definitions of a unit ordered by name.
// An empty unit returns every definition, officer first.
func (r *Registry) Definitions(unit schema.Unit) []schema.FeatureDefinition {
	units := []schema.Unit{unit}
	if unit == "" {
		units = schema.AllUnits
	}
	var out []schema.FeatureDefinition
	for _, u := range units {
		for _, name := range r.names[u] {
			out = append(out, r.defs[name])
		}
	}
	return out
}
