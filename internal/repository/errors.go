// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrStaleWrite signals that a conditional update lost an
// optimistic-concurrency race and must be retried from a fresh read.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a table that still has active reservations. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrStaleWrite is returned when a versioned update matched no row
// because the record changed since it was read. Handlers should
// translate this into an HTTP 409 "stale_write" response and ask the
// client to reload.
var ErrStaleWrite = errors.New("stale_write")
