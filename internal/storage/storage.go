// Package storage defines persistence errors shared by all store backends.
package storage

import "errors"

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a write conflicted with existing state or
	// uniqueness constraints.
	ErrConflict = errors.New("record conflict")
)
