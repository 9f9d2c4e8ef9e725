// Package repository contains the data access layer, separated from HTTP
// handlers. This file defines error values reused across repositories so
// that handlers can distinguish failure scenarios: ErrConflict signals a
// constraint violation during a write (duplicate key, dangling reference)
// and maps to HTTP 409. Entity-specific not-found sentinels live next to
// their repositories.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as a uniqueness violation on update. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicate reports a MySQL duplicate-key violation (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isFKViolation reports a MySQL foreign key failure (error 1452).
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
