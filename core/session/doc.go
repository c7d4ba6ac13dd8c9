// Package session defines who is acting on a request.
//
// A Session carries the user id and role. It is created by the auth middleware from
// a signed JWT (or from the API key, which maps to the System session) and handed to
// services explicitly. Role checks are made by the HTTP layer; the course editing core
// only records the actor.
package session
