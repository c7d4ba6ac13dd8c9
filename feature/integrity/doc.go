// Package integrity provides system health checks.
//
// It validates the infrastructure course-studio depends on rather than course
// content.
//
// # Checks Provided
//
//   - Schema: Validates that the connected database has every table and column the
//     GORM models declare. Column types are compared on MySQL and SQLite.
//   - Storage: Checks that the archive bucket exists and counts the stored archives.
//
// # HTTP Endpoints (admin)
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
