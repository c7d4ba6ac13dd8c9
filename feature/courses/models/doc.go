// Package models defines the GORM models of the course tree tables.
package models
