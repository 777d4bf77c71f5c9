// Package repository holds the storage layer: MySQL repositories for the
// table catalog, reservations and users, plus an in-memory store with the
// same method sets. Sentinel errors below let handlers tell failure
// scenarios apart.
package repository

import "errors"

// ErrNotFound is returned when a lookup by key matches no row. Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user with the same email is already
// registered.
var ErrEmailExists = errors.New("email already exists")
