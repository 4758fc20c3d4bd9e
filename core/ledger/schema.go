package ledger

import (
	"fmt"
	"reflect"
	"strings"

	"catalog-sync/core/database"

	"gorm.io/gorm"
)

// SchemaReport compares the ledger tables with the models.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists the differences found in one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema inspects the live ledger tables. A table that cannot be
// inspected is reported in Errors rather than failing the check.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}
	for _, model := range []interface{ TableName() string }{Run{}, RunItem{}} {
		table := model.TableName()
		actual, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}
		tbl := compareTable(reflect.TypeOf(model), actual)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}
	return report, nil
}

func compareTable(model reflect.Type, actual []database.ColumnInfo) TableReport {
	tbl := TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: "ok"}

	columns := make(map[string]database.ColumnInfo, len(actual))
	for _, col := range actual {
		columns[col.Field] = col
	}

	for i := 0; i < model.NumField(); i++ {
		tag := model.Field(i).Tag.Get("gorm")
		name := gormTagValue(tag, "column")
		if name == "" {
			continue
		}
		col, ok := columns[name]
		if !ok {
			tbl.MissingColumns = append(tbl.MissingColumns, name)
			tbl.Status = "error"
			continue
		}
		expected := strings.ToLower(gormTagValue(tag, "type"))
		if expected != "" && !strings.Contains(col.Type, expected) {
			tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", name, expected, col.Type))
			tbl.Status = "error"
		}
	}
	return tbl
}

// gormTagValue returns the value of key in a gorm struct tag.
func gormTagValue(tag, key string) string {
	for _, part := range strings.Split(tag, ";") {
		if strings.HasPrefix(part, key+":") {
			return strings.TrimPrefix(part, key+":")
		}
	}
	return ""
}
