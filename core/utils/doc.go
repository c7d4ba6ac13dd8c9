// Package utils validates request bodies on top of go-playground/validator and
// reports failures per JSON field.
package utils
