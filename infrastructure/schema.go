package infrastructure

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"

	"github.com/tidwall/gjson"
)

// TableSchema is one table together with the idempotent statements that
// bring it up. Every statement uses IF NOT EXISTS so re-running setup on an
// existing database is safe.
type TableSchema struct {
	Name       string
	Statements []string
}

//go:embed schema.json
var coreSchema []byte

// CoreTables returns the organization aggregate tables from the embedded
// schema, in declaration order.
func CoreTables() ([]TableSchema, error) {
	order := gjson.GetBytes(coreSchema, "order")
	if !order.Exists() {
		return nil, fmt.Errorf("embedded schema is missing the table order")
	}

	var tables []TableSchema
	for _, name := range order.Array() {
		stmts := gjson.GetBytes(coreSchema, "tables."+name.String())
		if !stmts.Exists() {
			return nil, fmt.Errorf("table schema not found for key: %s", name.String())
		}

		ts := TableSchema{Name: name.String()}
		for _, s := range stmts.Array() {
			ts.Statements = append(ts.Statements, s.String())
		}
		tables = append(tables, ts)
	}
	return tables, nil
}

// ReferenceTables generates DDL for every reference entity from the registry:
// a base table plus translation tables with a (fk, language_code) primary key
// and a GIN-indexed search vector.
func ReferenceTables() []TableSchema {
	var tables []TableSchema
	for _, kind := range models.EntityOrder {
		cfg := models.Entities[kind]
		fk := string(kind) + "_id"

		tables = append(tables, baseTable(cfg))
		tables = append(tables, translationTable(cfg.TranslationTable, fk, cfg.Table))
		if cfg.HasHistory() {
			tables = append(tables, translationTable(cfg.OldNameTable, fk, cfg.Table))
			tables = append(tables, translationTable(cfg.NewNameTable, fk, cfg.Table))
		}
	}
	return tables
}

func baseTable(cfg models.EntityConfig) TableSchema {
	cols := []string{
		"id uuid PRIMARY KEY",
		"status text NOT NULL DEFAULT 'active'",
	}
	for _, p := range cfg.Parents {
		cols = append(cols, p.Column+" uuid")
	}
	cols = append(cols,
		"created_at timestamptz NOT NULL DEFAULT now()",
		"updated_at timestamptz NOT NULL DEFAULT now()",
	)

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", cfg.Table, strings.Join(cols, ", ")),
	}
	for _, p := range cfg.Parents {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)",
			cfg.Table, p.Column, cfg.Table, p.Column))
	}
	return TableSchema{Name: cfg.Table, Statements: stmts}
}

func translationTable(table, fk, baseTable string) TableSchema {
	return TableSchema{
		Name: table,
		Statements: []string{
			fmt.Sprintf(
				"CREATE TABLE IF NOT EXISTS %s (%s uuid NOT NULL REFERENCES %s(id) ON DELETE CASCADE, language_code text NOT NULL, name text NOT NULL, search_vector tsvector, PRIMARY KEY (%s, language_code))",
				table, fk, baseTable, fk),
			fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS idx_%s_search ON %s USING gin (search_vector)",
				table, table),
		},
	}
}

// Tables returns every table the service needs, reference entities first so
// the organization foreign keys have their targets.
func Tables() ([]TableSchema, error) {
	core, err := CoreTables()
	if err != nil {
		return nil, err
	}
	return append(ReferenceTables(), core...), nil
}

// TranslationTables lists every translation table, for the background search
// vector refresh.
func TranslationTables() []string {
	var tables []string
	for _, kind := range models.EntityOrder {
		cfg := models.Entities[kind]
		tables = append(tables, cfg.TranslationTable)
		if cfg.HasHistory() {
			tables = append(tables, cfg.OldNameTable, cfg.NewNameTable)
		}
	}
	return tables
}
