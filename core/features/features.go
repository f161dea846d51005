// Package features implements the per-family computation units behind the
// build-and-insert seam. Each family renders one SQL template into an UPDATE
// against the destination feature table.
package features

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/jackc/pgx/v5"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

//go:embed templates/*.sql.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("features").ParseFS(templateFS, "templates/*.sql.tmpl"))

// dispatchEventType is the event_type_code of a dispatch event.
const dispatchEventType = 5

// officerFamilies read source rows strictly before a single snapshot.
var officerFamilies = map[schema.Family]struct{}{
	schema.OfficerAggregateFamily: {},
	schema.OfficerAttributeFamily: {},
	schema.TimeGatedFamily:        {},
}

// HasFamily reports whether a family has a SQL template.
func HasFamily(family schema.Family) bool {
	return templates.Lookup(templateName(family)) != nil
}

func templateName(family schema.Family) string {
	return string(family) + ".sql.tmpl"
}

// templateData is what every family template renders from.
type templateData struct {
	Table       string // quoted schema-qualified destination
	Column      string // quoted feature column
	FakeToday   string // snapshot literal for officer families
	Anchor      string // instant the window ends at
	Interval    string // window length as a PostgreSQL interval
	Categorical bool

	Field      string
	Source     string
	Condition  string
	TimeColumn string
	Expr       string
	EventType  int
	RadiusM    int

	DispatchEventType int
}

// Unit is a feature bound to a temporal context.
type Unit struct {
	def   schema.FeatureDefinition
	spec  schema.FeatureSpec
	tc    schema.TemporalContext
	table string
	data  templateData
}

var _ contract.FeatureUnit = &Unit{} // Compile-time check

// New binds a feature definition to a temporal context. Officer families need
// a snapshot and time-gated families need a configured lookback.
func New(def schema.FeatureDefinition, spec schema.FeatureSpec, tc schema.TemporalContext) (*Unit, error) {
	if !HasFamily(def.Family) {
		return nil, fmt.Errorf("no computation for family %q", def.Family)
	}
	if tc.TableName == "" {
		return nil, fmt.Errorf("feature %s: destination table is required", def.Name)
	}
	tableSchema := tc.TableSchema
	if tableSchema == "" {
		tableSchema = schema.DefaultTableSchema
	}

	p := def.Params
	data := templateData{
		Table:             pgx.Identifier{tableSchema, tc.TableName}.Sanitize(),
		Column:            pgx.Identifier{def.Name}.Sanitize(),
		Anchor:            "feat.fake_today",
		Interval:          p.Interval,
		Categorical:       def.Categorical,
		Field:             p.Field,
		Source:            p.Source,
		Condition:         p.Condition,
		TimeColumn:        p.TimeColumn,
		Expr:              p.Expr,
		EventType:         p.EventType,
		RadiusM:           p.RadiusM,
		DispatchEventType: dispatchEventType,
	}

	if _, ok := officerFamilies[def.Family]; ok {
		if tc.FakeToday.IsZero() {
			return nil, fmt.Errorf("feature %s: fake_today is required for officer features", def.Name)
		}
		data.FakeToday = fmt.Sprintf("'%s'::timestamp", tc.FakeToday.Format(schema.TimestampLayout))
		data.Anchor = data.FakeToday
	}

	switch def.Family {
	case schema.OfficerAggregateFamily:
		years := p.WindowYears
		if years == 0 {
			years = spec.TimeWindow
		}
		data.Interval = fmt.Sprintf("%d years", years)
	case schema.TimeGatedFamily:
		lookback, ok := tc.LookbackDurations[def.Name]
		if !ok || strings.TrimSpace(lookback) == "" {
			return nil, &contract.MissingLookbackError{Feature: def.Name}
		}
		interval, err := contract.IntervalLiteral(lookback)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", def.Name, err)
		}
		data.Interval = interval
	}

	return &Unit{def: def, spec: spec, tc: tc, table: tableSchema + "." + tc.TableName, data: data}, nil
}

// Spec returns the descriptor the unit was resolved with.
func (u *Unit) Spec() schema.FeatureSpec {
	return u.spec
}

// Context returns the temporal context the unit is bound to.
func (u *Unit) Context() schema.TemporalContext {
	return u.tc
}

// Statement renders the UPDATE this unit issues, collapsed onto one line.
func (u *Unit) Statement() (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateName(u.def.Family), u.data); err != nil {
		return "", fmt.Errorf("failed to render feature %s: %w", u.def.Name, err)
	}
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// BuildAndInsert computes the feature for every relevant row of the destination
// table and writes it into the feature column.
func (u *Unit) BuildAndInsert(ctx context.Context, exec contract.Executor) error {
	stmt, err := u.Statement()
	if err != nil {
		return err
	}
	if err := exec.Exec(ctx, stmt); err != nil {
		return &contract.ExecutionError{
			Table:     u.table,
			Statement: stmt,
			Err:       fmt.Errorf("feature %s: %w", u.def.Name, err),
		}
	}
	return nil
}
