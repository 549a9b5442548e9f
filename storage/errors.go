// Package storage defines the errors shared by the record store adapters.
package storage

import "errors"

var (
	// ErrNotFound is returned when a delete or lookup targets a record that
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a create collides with an existing
	// identity key (medication name or habit ID).
	ErrDuplicate = errors.New("record already exists")
)
