// Package planner turns a run configuration into the distinct snapshots a
// materialization run must cover.
package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

// ErrNoCohortStart is returned when the cohort plan has no start date.
var ErrNoCohortStart = errors.New("fake-today-start is required to plan snapshots")

// PlanSnapshots asks the generator for the cohort plan and reduces it to its
// distinct fake_today instants in ascending order.
func PlanSnapshots(ctx context.Context, gen contract.CohortGenerator, cfg *contract.Config) ([]time.Time, error) {
	entries, err := gen.Generate(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate cohort plan: %w", err)
	}
	return DistinctSnapshots(entries)
}

// DistinctSnapshots parses the fake_today of every entry and removes duplicates.
// Tokens are parsed with the same layout the generator renders them with.
func DistinctSnapshots(entries []schema.CohortEntry) ([]time.Time, error) {
	seen := make(map[time.Time]struct{}, len(entries))
	var out []time.Time
	for _, e := range entries {
		ts, err := contract.ParseSnapshot(e.FakeToday)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[ts]; ok {
			continue
		}
		seen[ts] = struct{}{}
		out = append(out, ts)
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out, nil
}

// CohortGenerator produces one entry per (fake_today, prediction window) pair
// between the configured start and end, stepping by the configured frequency.
type CohortGenerator struct{}

var _ contract.CohortGenerator = CohortGenerator{} // Compile-time check

// Generate implements the contract.CohortGenerator interface.
func (CohortGenerator) Generate(ctx context.Context, cfg *contract.Config) ([]schema.CohortEntry, error) {
	if cfg.FakeTodayStart.IsZero() {
		return nil, ErrNoCohortStart
	}
	if cfg.FakeTodayFrequency.IsZero() {
		return nil, errors.New("fake-today-frequency must advance time")
	}
	end := cfg.FakeTodayEnd
	if end.IsZero() {
		end = cfg.FakeTodayStart
	}
	windows := cfg.PredictionWindows
	if len(windows) == 0 {
		windows = []string{contract.DefaultPredictionWindow}
	}

	var entries []schema.CohortEntry
	for day := cfg.FakeTodayStart; !day.After(end); day = cfg.FakeTodayFrequency.AddTo(day) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		token := contract.FormatSnapshot(day)
		for _, w := range windows {
			entries = append(entries, schema.CohortEntry{FakeToday: token, PredictionWindow: w})
		}
	}
	return entries, nil
}

// ColumnLister lists the officer columns from a feature registry.
type ColumnLister struct {
	Registry *registry.Registry
}

var _ contract.ColumnLister = ColumnLister{} // Compile-time check

// OfficerColumns returns every officer feature name, sorted. Toggles do not
// narrow the list; the officer table provisions the whole universe.
func (l ColumnLister) OfficerColumns(_ *contract.Config) ([]string, error) {
	r := l.Registry
	if r == nil {
		r = registry.Default()
	}
	cols := r.Names(schema.OfficerUnit)
	if len(cols) == 0 {
		return nil, errors.New("registry has no officer features")
	}
	return cols, nil
}
