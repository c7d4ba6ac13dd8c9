// Package courses implements course browsing and authoring.
//
// Authoring goes through drafts: an admin opens a draft of an existing course, edits
// it with small PATCH/POST/DELETE calls that only touch the in-memory tree, previews
// the save plan and finally saves. Saving runs the core/reconcile planner and
// executor against the GORM Repository, inside one transaction unless
// reconcile.transactional is off.
//
// # Components
//
//   - Repository: GORM implementation of reconcile.Persistence and reconcile.Transactor.
//   - Drafts: registry of open editing sessions with per-draft locking, a duplicate
//     save guard and an idle TTL.
//   - Service: catalogue, create, delete, draft editing and file imports.
//   - Handler: HTTP endpoints.
//
// # HTTP Endpoints
//
//   - GET /courses, GET /courses/:id
//   - POST /courses, DELETE /courses/:id (admin)
//   - POST /courses/:id/drafts (admin)
//   - GET|PATCH|DELETE /drafts/:draft, GET /drafts/:draft/plan, POST /drafts/:draft/save
//   - POST /drafts/:draft/modules, PATCH|DELETE /drafts/:draft/modules/:module
//   - POST /drafts/:draft/modules/:module/videos, PATCH|DELETE .../videos/:video
package courses
