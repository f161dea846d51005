// Package materialize drops, creates, seeds and populates point-in-time
// feature tables.
//
// A run exclusively owns its destination table from the DROP onwards. Callers
// must serialize runs that target the same table name.
package materialize

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/huangsam/pitfeat/core/planner"
	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

// Stages selects which halves of a run execute.
type Stages struct {
	Create   bool
	Populate bool
}

// AllStages creates and then populates the table.
var AllStages = Stages{Create: true, Populate: true}

// Report summarizes a finished run.
type Report struct {
	RunUUID   string           `json:"run_uuid"`
	Table     schema.TableSpec `json:"table"`
	Features  []string         `json:"features"`
	Snapshots []time.Time      `json:"snapshots,omitempty"`
	Elapsed   time.Duration    `json:"elapsed"`
}

// Materializer drives table creation and feature population against one executor.
// Statements run one at a time in a deterministic order.
type Materializer struct {
	exec     contract.Executor
	registry *registry.Registry
	cohorts  contract.CohortGenerator
	columns  contract.ColumnLister
	runs     contract.RunStore
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Materializer.
type Option func(*Materializer)

// WithRegistry replaces the built-in feature registry.
func WithRegistry(r *registry.Registry) Option {
	return func(m *Materializer) { m.registry = r }
}

// WithCohortGenerator replaces the default cohort generator.
func WithCohortGenerator(g contract.CohortGenerator) Option {
	return func(m *Materializer) { m.cohorts = g }
}

// WithColumnLister replaces the registry-backed officer column lister.
func WithColumnLister(l contract.ColumnLister) Option {
	return func(m *Materializer) { m.columns = l }
}

// WithRunStore records runs in a ledger. Ledger failures only log warnings.
func WithRunStore(s contract.RunStore) Option {
	return func(m *Materializer) { m.runs = s }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(m *Materializer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(m *Materializer) { m.now = now }
}

// New builds a Materializer around an established warehouse executor.
func New(exec contract.Executor, opts ...Option) *Materializer {
	m := &Materializer{
		exec:    exec,
		cohorts: planner.CohortGenerator{},
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = registry.Default()
	}
	if m.columns == nil {
		m.columns = planner.ColumnLister{Registry: m.registry}
	}
	return m
}

// plan is everything a run decides before touching the warehouse.
type plan struct {
	table     schema.TableSpec
	features  []string
	snapshots []time.Time // officer runs only
}

func (m *Materializer) plan(ctx context.Context, cfg *contract.Config) (*plan, error) {
	table, err := BuildTableSpec(cfg, m.registry, m.columns)
	if err != nil {
		return nil, err
	}
	p := &plan{table: table, features: cfg.ActiveFeatures()}
	if cfg.Unit == schema.OfficerUnit {
		if p.snapshots, err = planner.PlanSnapshots(ctx, m.cohorts, cfg); err != nil {
			return nil, err
		}
		if len(p.snapshots) == 0 {
			return nil, fmt.Errorf("cohort plan for %s has no snapshots", cfg.TableName)
		}
	}
	return p, nil
}

// PreviewStatements returns the DDL and seeding statements a create would issue,
// without executing anything.
func (m *Materializer) PreviewStatements(ctx context.Context, cfg *contract.Config) ([]string, error) {
	p, err := m.plan(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return createStatements(p, cfg)
}

func createStatements(p *plan, cfg *contract.Config) ([]string, error) {
	stmts := []string{DropTableSQL(p.table), CreateTableSQL(p.table)}
	switch cfg.Unit {
	case schema.OfficerUnit:
		for _, s := range p.snapshots {
			stmts = append(stmts, SeedOfficerSQL(p.table, s))
		}
	case schema.DispatchUnit:
		seed, err := SeedDispatchSQL(p.table, cfg.RawDataFromDate, cfg.RawDataToDate)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, seed)
	}
	return stmts, nil
}

// CreateTable drops, recreates and seeds the destination table.
func (m *Materializer) CreateTable(ctx context.Context, cfg *contract.Config) error {
	p, err := m.plan(ctx, cfg)
	if err != nil {
		return err
	}
	return m.create(ctx, cfg, p)
}

// PopulateTable computes every active feature into an existing, seeded table.
func (m *Materializer) PopulateTable(ctx context.Context, cfg *contract.Config) error {
	p, err := m.plan(ctx, cfg)
	if err != nil {
		return err
	}
	return m.populate(ctx, cfg, p, 0)
}

// Run executes the selected stages and records the run in the ledger when one is set.
func (m *Materializer) Run(ctx context.Context, cfg *contract.Config, stages Stages) (*Report, error) {
	start := m.now()
	p, err := m.plan(ctx, cfg)
	if err != nil {
		return nil, err
	}
	report := &Report{
		RunUUID:   uuid.NewString(),
		Table:     p.table,
		Features:  p.features,
		Snapshots: p.snapshots,
	}
	log := m.logger.With(zap.String("run", report.RunUUID))

	runID := m.beginRun(log, report, start)
	err = m.runStages(ctx, cfg, p, stages, runID)
	m.endRun(log, runID, err)
	report.Elapsed = m.now().Sub(start)
	if err != nil {
		log.Error("materialization failed", zap.String("table", cfg.TableName), zap.Error(err))
		return report, err
	}
	log.Info("materialization finished",
		zap.String("table", cfg.TableName),
		zap.Int("features", len(p.features)),
		zap.Int("snapshots", len(p.snapshots)),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (m *Materializer) runStages(ctx context.Context, cfg *contract.Config, p *plan, stages Stages, runID int64) error {
	if stages.Create {
		if err := m.create(ctx, cfg, p); err != nil {
			return err
		}
	}
	if stages.Populate {
		if err := m.populate(ctx, cfg, p, runID); err != nil {
			return err
		}
	}
	return nil
}

func (m *Materializer) create(ctx context.Context, cfg *contract.Config, p *plan) error {
	stmts, err := createStatements(p, cfg)
	if err != nil {
		return err
	}
	table := p.table.Schema + "." + p.table.Name
	m.logger.Info("rebuilding feature table",
		zap.String("table", table),
		zap.String("unit", string(cfg.Unit)),
		zap.Int("columns", len(p.table.Columns)),
		zap.Bool("unlogged", p.table.Unlogged),
	)
	for _, stmt := range stmts {
		if err := m.exec.Exec(ctx, stmt); err != nil {
			return &contract.ExecutionError{Table: table, Statement: stmt, Err: err}
		}
	}
	m.logger.Info("seeded feature table", zap.String("table", table), zap.Int("snapshots", len(p.snapshots)))
	return nil
}

// populate resolves and builds features in feature-major, snapshot-minor order.
func (m *Materializer) populate(ctx context.Context, cfg *contract.Config, p *plan, runID int64) error {
	for _, name := range p.features {
		started := m.now()
		var kind schema.FeatureKind
		contexts := m.contextsFor(cfg, p)
		for _, tc := range contexts {
			unit, err := m.registry.Resolve(name, tc)
			if err != nil {
				return err
			}
			kind = kindOf(unit.Spec())
			if err := unit.BuildAndInsert(ctx, m.exec); err != nil {
				return err
			}
			m.logger.Debug("built feature",
				zap.String("feature", name),
				zap.String("fake_today", contract.FormatSnapshot(tc.FakeToday)),
			)
		}
		m.recordFeature(runID, name, kind, len(contexts), m.now().Sub(started))
	}
	return nil
}

// contextsFor returns one context per resolution of a feature: one per snapshot
// for officers, a single one for dispatches whose rows carry their own instant.
func (m *Materializer) contextsFor(cfg *contract.Config, p *plan) []schema.TemporalContext {
	base := schema.TemporalContext{
		FromDate:    cfg.RawDataFromDate,
		ToDate:      cfg.RawDataToDate,
		TableSchema: p.table.Schema,
		TableName:   p.table.Name,
	}
	if cfg.Unit != schema.OfficerUnit {
		base.FakeToday = m.now()
		return []schema.TemporalContext{base}
	}
	out := make([]schema.TemporalContext, 0, len(p.snapshots))
	for _, s := range p.snapshots {
		tc := base
		tc.FakeToday = s
		tc.LookbackDurations = cfg.TimegatedLookback
		out = append(out, tc)
	}
	return out
}

func kindOf(spec schema.FeatureSpec) schema.FeatureKind {
	switch {
	case spec.IsLabel:
		return schema.LabelKind
	case spec.IsCategorical:
		return schema.CategoricalKind
	default:
		return schema.NumericKind
	}
}

func (m *Materializer) beginRun(log *zap.Logger, r *Report, start time.Time) int64 {
	if m.runs == nil {
		return 0
	}
	id, err := m.runs.BeginRun(r.RunUUID, r.Table.Unit, r.Table.Name, start, len(r.Features), len(r.Snapshots))
	if err != nil {
		log.Warn("failed to record run start", zap.Error(err))
		return 0
	}
	return id
}

func (m *Materializer) recordFeature(runID int64, name string, kind schema.FeatureKind, snapshots int, elapsed time.Duration) {
	if m.runs == nil || runID == 0 {
		return
	}
	if err := m.runs.RecordFeature(runID, name, kind, snapshots, elapsed); err != nil {
		m.logger.Warn("failed to record feature timing", zap.String("feature", name), zap.Error(err))
	}
}

func (m *Materializer) endRun(log *zap.Logger, runID int64, runErr error) {
	if m.runs == nil || runID == 0 {
		return
	}
	state := schema.SucceededState
	if runErr != nil {
		state = schema.FailedState
	}
	if err := m.runs.EndRun(runID, m.now(), state, runErr); err != nil {
		log.Warn("failed to record run end", zap.Error(err))
	}
}
