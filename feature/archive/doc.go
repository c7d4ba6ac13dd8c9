// Package archive copies course trees to object storage and back.
//
// An archive is the normalized course tree encoded as JSON under
// "courses/<id>.json" in the configured bucket. Restoring an archive goes through
// the same import path as `course import`, so it is planned with core/reconcile and
// can be previewed with dry_run.
//
// # HTTP Endpoints (admin)
//
//   - POST /archive/courses/:id: write the archive
//   - GET /archive/courses/:id: read it back
//   - POST /archive/courses/:id/restore?dry_run=true: save it over the course
package archive
