// Package repository implements the catalog store over database/sql.  This
// file defines sentinel errors shared by the repositories so higher layers
// can map failure modes to client-visible statuses without inspecting
// driver-specific error strings themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists signals a signup against an email that is already
// registered.  Handlers translate this to HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateEntry signals a uniqueness-constraint violation on a
// (user, movie) membership table.  Handlers translate this to HTTP 409;
// the UI treats it as a benign resync signal.
var ErrDuplicateEntry = errors.New("duplicate entry")

// ErrNotFound signals that a referenced row does not exist.  Handlers
// translate this to HTTP 404.
var ErrNotFound = errors.New("not found")

// isDuplicateKey reports whether err is MySQL error 1062 (duplicate key).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// isForeignKeyViolation reports whether err is MySQL error 1452 (a child row
// references a missing parent, e.g. adding a list entry for a deleted movie).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1452")
}
