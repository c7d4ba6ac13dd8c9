// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: resolves the caller's session from the X-API-Key header (system admin)
//     or a Bearer JWT, and gates routes by role with RequireRole.
//   - rayid: generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and the X-Ray-ID response header for tracing.
//
// RayID is registered first so that auth failures are traceable too.
package middleware
