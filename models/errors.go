package models

import "errors"

// ErrNotFound is returned by repositories when the requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

// ErrReferenced is returned when a delete is blocked by rows that still point at the record.
var ErrReferenced = errors.New("record is referenced by other rows")
