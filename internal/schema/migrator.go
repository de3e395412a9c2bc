// Package schema brings a live database up to the column set the code
// expects. Changes are additive only: tables and columns are created when
// absent and nothing is ever altered in place or dropped, so every entry
// point is safe to run on each cold start and before any dependent write.
package schema

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
)

// Migrator applies idempotent additive schema changes. The check-then-act
// sequences are not transactional; a concurrent caller winning the race
// surfaces as an "already exists" error, which is treated as success.
type Migrator struct {
	db      *gorm.DB
	types   *strings.Replacer
	dialect string
	log     *zap.SugaredLogger
}

// New creates a Migrator for the dialect behind db.
func New(db *gorm.DB) *Migrator {
	dialect := db.Dialector.Name()
	return &Migrator{
		db:      db,
		types:   typeReplacer(dialect),
		dialect: dialect,
		log:     logger.Named("schema"),
	}
}

func typeReplacer(dialect string) *strings.Replacer {
	if dialect == "postgres" {
		return strings.NewReplacer(
			"{uuid}", "UUID",
			"{money}", "NUMERIC(12,2)",
			"{date}", "DATE",
			"{ts}", "TIMESTAMPTZ",
			"{json}", "JSONB",
		)
	}
	return strings.NewReplacer(
		"{uuid}", "TEXT",
		"{money}", "NUMERIC(12,2)",
		"{date}", "DATE",
		"{ts}", "DATETIME",
		"{json}", "TEXT",
	)
}

// EnsureTable creates table name with the given column definition if it
// does not exist yet.
func (m *Migrator) EnsureTable(ctx context.Context, name, definition string) error {
	if m.db.WithContext(ctx).Migrator().HasTable(name) {
		return nil
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", name, m.types.Replace(definition))
	return m.exec(ctx, stmt, "create table "+name)
}

// EnsureColumn adds column to table using addColumnStatement when the live
// column list does not contain it.
func (m *Migrator) EnsureColumn(ctx context.Context, table, column, addColumnStatement string) error {
	columns, err := m.Columns(ctx, table)
	if err != nil {
		return err
	}
	for _, c := range columns {
		if strings.EqualFold(c, column) {
			return nil
		}
	}
	return m.addColumn(ctx, table, column, addColumnStatement)
}

func (m *Migrator) addColumn(ctx context.Context, table, column, addColumnStatement string) error {
	m.log.Infow("adding column", "table", table, "column", column)
	return m.exec(ctx, m.types.Replace(addColumnStatement), "add column "+table+"."+column)
}

// exec runs a DDL statement, swallowing the error a concurrent creator causes.
func (m *Migrator) exec(ctx context.Context, stmt, what string) error {
	err := m.db.WithContext(ctx).Exec(stmt).Error
	if err == nil {
		return nil
	}
	if IsAlreadyExists(err) {
		m.log.Debugw("schema change raced with another caller", "change", what)
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}

// Columns returns the live column names of table. A missing table yields an
// empty list.
func (m *Migrator) Columns(ctx context.Context, table string) ([]string, error) {
	var query string
	if m.dialect == "postgres" {
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ?"
	} else {
		query = "SELECT name FROM pragma_table_info(?)"
	}

	var columns []string
	if err := m.db.WithContext(ctx).Raw(query, table).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	return columns, nil
}

// EnsureCoreTables creates every table and index the application uses.
func (m *Migrator) EnsureCoreTables(ctx context.Context) error {
	for _, spec := range CoreTables {
		if err := m.EnsureTable(ctx, spec.Name, spec.Definition); err != nil {
			return err
		}
		for _, idx := range spec.Indexes {
			if err := m.exec(ctx, idx, "create index on "+spec.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// EnsureSettingsColumns makes sure user_settings exists and carries every
// column in SettingsColumns.
func (m *Migrator) EnsureSettingsColumns(ctx context.Context) error {
	for _, spec := range CoreTables {
		if spec.Name != models.TableUserSettings {
			continue
		}
		if err := m.EnsureTable(ctx, spec.Name, spec.Definition); err != nil {
			return err
		}
	}

	for _, col := range SettingsColumns {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", models.TableUserSettings, col.Name, col.Definition)
		if err := m.EnsureColumn(ctx, models.TableUserSettings, col.Name, stmt); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAll runs every additive change. It is the pass the store triggers
// when a write fails on missing schema.
func (m *Migrator) EnsureAll(ctx context.Context) error {
	if err := m.EnsureCoreTables(ctx); err != nil {
		return err
	}
	return m.EnsureSettingsColumns(ctx)
}
