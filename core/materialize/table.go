package materialize

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

// Fixed columns present in every feature table.
const (
	fakeTodayColumn = "fake_today"
	createdOnColumn = "created_on"
)

// dispatchEventType is the event_type_code that opens a dispatch.
const dispatchEventType = 5

// ColumnPolicy decides which feature columns a unit's table provisions.
type ColumnPolicy string

const (
	// UniversePolicy provisions every column the column lister reports.
	UniversePolicy ColumnPolicy = "universe"
	// ActivePolicy provisions exactly the active features.
	ActivePolicy ColumnPolicy = "active"
)

// PolicyFor returns the column policy of a unit. Officer tables carry the whole
// officer universe; dispatch tables carry only what is switched on.
func PolicyFor(unit schema.Unit) ColumnPolicy {
	if unit == schema.OfficerUnit {
		return UniversePolicy
	}
	return ActivePolicy
}

// BuildTableSpec elaborates the destination table for the configured unit.
// An empty active set fails with contract.ErrEmptyFeatureSet.
func BuildTableSpec(cfg *contract.Config, reg *registry.Registry, lister contract.ColumnLister) (schema.TableSpec, error) {
	active := cfg.ActiveFeatures()
	if len(active) == 0 {
		return schema.TableSpec{}, fmt.Errorf("%w for unit %s", contract.ErrEmptyFeatureSet, cfg.Unit)
	}
	if err := checkUnitMembership(reg, cfg.Unit, active); err != nil {
		return schema.TableSpec{}, err
	}

	spec := schema.TableSpec{Schema: cfg.TableSchema, Name: cfg.TableName, Unit: cfg.Unit}
	if spec.Schema == "" {
		spec.Schema = schema.DefaultTableSchema
	}

	switch cfg.Unit {
	case schema.OfficerUnit:
		spec.Unlogged = true
		spec.Columns = []schema.ColumnDef{
			{Name: cfg.Unit.IDColumn(), Type: schema.OfficerIDColumnType},
			{Name: createdOnColumn, Type: schema.TimestampColumnType},
			{Name: fakeTodayColumn, Type: schema.TimestampColumnType},
		}
		cols, err := lister.OfficerColumns(cfg)
		if err != nil {
			return schema.TableSpec{}, fmt.Errorf("failed to list officer columns: %w", err)
		}
		for _, c := range cols {
			spec.Columns = append(spec.Columns, schema.ColumnDef{Name: c, Type: schema.NumericColumnType})
		}
	case schema.DispatchUnit:
		spec.Columns = []schema.ColumnDef{
			{Name: cfg.Unit.IDColumn(), Type: schema.DispatchIDColumnType},
			{Name: fakeTodayColumn, Type: schema.TimestampColumnType},
			{Name: createdOnColumn, Type: schema.TimestampColumnType},
		}
		classes, err := reg.Classify(active)
		if err != nil {
			return schema.TableSpec{}, err
		}
		for _, c := range classes.Numeric {
			spec.Columns = append(spec.Columns, schema.ColumnDef{Name: c, Type: schema.NumericColumnType})
		}
		for _, c := range classes.Categorical {
			spec.Columns = append(spec.Columns, schema.ColumnDef{Name: c, Type: schema.CategoricalColumnType})
		}
	default:
		return schema.TableSpec{}, fmt.Errorf("%w %q", contract.ErrUnknownUnit, cfg.Unit)
	}
	return spec, nil
}

// checkUnitMembership rejects unknown names and names registered to another unit.
func checkUnitMembership(reg *registry.Registry, unit schema.Unit, names []string) error {
	for _, name := range names {
		def, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		if def.Unit != unit {
			return fmt.Errorf("feature %s belongs to unit %s, not %s", name, def.Unit, unit)
		}
	}
	return nil
}

func qualifiedName(spec schema.TableSpec) string {
	return pgx.Identifier{spec.Schema, spec.Name}.Sanitize()
}

// DropTableSQL renders the unconditional drop of the destination table.
func DropTableSQL(spec schema.TableSpec) string {
	return "DROP TABLE IF EXISTS " + qualifiedName(spec)
}

// CreateTableSQL renders the DDL of the destination table.
func CreateTableSQL(spec schema.TableSpec) string {
	cols := make([]string, 0, len(spec.Columns))
	for _, c := range spec.Columns {
		cols = append(cols, pgx.Identifier{c.Name}.Sanitize()+" "+c.Type)
	}
	kind := "TABLE"
	if spec.Unlogged {
		kind = "UNLOGGED TABLE"
	}
	return fmt.Sprintf("CREATE %s %s (%s)", kind, qualifiedName(spec), strings.Join(cols, ", "))
}

// SeedOfficerSQL renders the insert of one row per known officer for a snapshot.
func SeedOfficerSQL(spec schema.TableSpec, snapshot time.Time) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s) SELECT officers.officer_id, '%s'::timestamp, now() FROM staging.officers_hub AS officers",
		qualifiedName(spec),
		pgx.Identifier{spec.Unit.IDColumn()}.Sanitize(),
		pgx.Identifier{fakeTodayColumn}.Sanitize(),
		pgx.Identifier{createdOnColumn}.Sanitize(),
		snapshot.Format(schema.TimestampLayout),
	)
}

// SeedDispatchSQL renders the insert of one row per dispatch opened inside the
// raw data window. Each row's fake_today is its earliest dispatch event.
func SeedDispatchSQL(spec schema.TableSpec, fromDate, toDate string) (string, error) {
	if fromDate == "" || toDate == "" {
		return "", fmt.Errorf("raw-data-from-date and raw-data-to-date are required to seed %s", spec.Name)
	}
	if _, err := contract.ParseRawDate(fromDate); err != nil {
		return "", err
	}
	if _, err := contract.ParseRawDate(toDate); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s) SELECT events.dispatch_id, MIN(events.event_datetime), now() "+
			"FROM staging.events_hub AS events "+
			"WHERE events.event_datetime BETWEEN '%s' AND '%s' "+
			"AND events.dispatch_id IS NOT NULL AND events.event_type_code = %d "+
			"GROUP BY events.dispatch_id",
		qualifiedName(spec),
		pgx.Identifier{spec.Unit.IDColumn()}.Sanitize(),
		pgx.Identifier{fakeTodayColumn}.Sanitize(),
		pgx.Identifier{createdOnColumn}.Sanitize(),
		fromDate, toDate, dispatchEventType,
	), nil
}
