// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
//
// Lookups of a missing row return sql.ErrNoRows so callers can map it with errors.Is.
package repository

import "errors"

// ErrDuplicate is returned when a write violates a uniqueness constraint
// (user email, one review per user and product).
var ErrDuplicate = errors.New("duplicate record")

// ErrConflict is returned when a conditional write finds the row no longer
// in the expected state.
var ErrConflict = errors.New("record changed concurrently")

// ErrReferenced is returned when a row cannot be removed because other rows
// still point at it.
var ErrReferenced = errors.New("record is still referenced")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
