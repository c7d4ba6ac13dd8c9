// Package database handles database connections and schema inspection.
//
// It wraps GORM and selects the dialector from the configured driver: postgres
// (the default), mysql or sqlite. SQLite connections get foreign keys enabled so
// module and video cascades behave like on the server databases.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns for the integrity checks, using
// information_schema on postgres, SHOW COLUMNS on mysql and PRAGMA table_info on
// sqlite.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "videos")
package database
