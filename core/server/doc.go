// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application; this package only defines the
// settings it reads: listen port, the system API key, CORS origins and the request
// body limit.
//
// # Usage
//
// This package is embedded by core/config and read by cmd/start.
package server
