// Package reservation decides whether a reservation may be written: the
// table must exist in the catalog and the requested slot must not overlap
// any reservation already held for that table.
package reservation

import "errors"

// Business rejections. Handlers report these as client errors.
var (
	ErrTableNotFound = errors.New("table does not exist")
	ErrSlotConflict  = errors.New("reservation overlaps with an existing one")
)

// ErrInvalidRequest and ErrMalformedInterval describe input that never
// reaches the checks.
var (
	ErrInvalidRequest    = errors.New("invalid reservation request")
	ErrMalformedInterval = errors.New("malformed reservation interval")
)

// ErrCorruptReservation is returned when a stored reservation cannot be
// turned into an interval. The admission decision is aborted instead of
// treating the record as free time.
var ErrCorruptReservation = errors.New("stored reservation has an unparsable interval")
