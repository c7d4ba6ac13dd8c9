// Package dashboard tracks learner progress.
//
// Learners enroll in courses and mark videos as watched. Progress is the share of a
// course's videos the learner has watched (0 for a course without videos). Watching
// the last video completes the enrollment and issues a certificate, both exactly once.
//
// # HTTP Endpoints (learner)
//
//   - POST /courses/:id/enroll
//   - POST /videos/:id/watched
//   - GET /me/dashboard
package dashboard
