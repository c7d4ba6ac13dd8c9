// Package models defines the GORM rows of learner progress: enrollments, watched
// videos and certificates.
package models
