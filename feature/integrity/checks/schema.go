package checks

import (
	"fmt"
	"reflect"
	"strings"

	"course-studio/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the database against the GORM models.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// CheckSchema verifies the database schema using the given GORM models as the
// source of truth. Column types are only compared on MySQL and SQLite, where the
// reported type matches the declared one.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	driver := db.Dialector.Name()
	report := &SchemaReport{
		Driver:  driver,
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}
	compareTypes := driver != database.DriverPostgres

	for _, model := range models {
		typ := reflect.TypeOf(model)
		if typ.Kind() == reflect.Pointer {
			typ = typ.Elem()
		}
		tabler, ok := reflect.New(typ).Interface().(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", typ.Name())
		}
		tableName := tabler.TableName()

		actualCols, err := database.GetTableColumns(db, tableName)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}

		tblReport := TableReport{
			MissingColumns: []string{},
			TypeMismatches: []string{},
			Status:         "ok",
		}
		if len(actualCols) == 0 {
			tblReport.Status = "missing"
			report.Matched = false
			report.Tables[tableName] = tblReport
			continue
		}

		actualMap := make(map[string]database.ColumnInfo, len(actualCols))
		for _, col := range actualCols {
			actualMap[col.Field] = col
		}

		for i := 0; i < typ.NumField(); i++ {
			gormTag := typ.Field(i).Tag.Get("gorm")
			colName := parseGormColumn(gormTag)
			if colName == "" {
				continue
			}

			actCol, exists := actualMap[colName]
			if !exists {
				tblReport.MissingColumns = append(tblReport.MissingColumns, colName)
				tblReport.Status = "error"
				report.Matched = false
				continue
			}

			expType := strings.ToLower(parseGormType(gormTag))
			if !compareTypes || expType == "" {
				continue
			}
			if !strings.HasPrefix(actCol.Type, baseType(expType)) {
				tblReport.TypeMismatches = append(tblReport.TypeMismatches,
					fmt.Sprintf("%s: expected %s, got %s", colName, expType, actCol.Type))
				tblReport.Status = "error"
				report.Matched = false
			}
		}

		report.Tables[tableName] = tblReport
	}

	return report, nil
}

// baseType strips the length of a column type, "varchar(36)" becomes "varchar".
func baseType(t string) string {
	if i := strings.IndexByte(t, '('); i >= 0 {
		return t[:i]
	}
	return t
}

// Helpers to parse simple GORM tags
func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}

func parseGormType(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "type:") {
			return strings.TrimPrefix(p, "type:")
		}
	}
	return ""
}
