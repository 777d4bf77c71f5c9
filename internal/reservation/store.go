package reservation

import (
	"context"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Catalog looks tables up by their public number.
type Catalog interface {
	FindTablesByNumber(ctx context.Context, number int) ([]model.Table, error)
}

// Store reads and writes reservation records.
type Store interface {
	ReservationsForTable(ctx context.Context, tableNumber int) ([]model.Reservation, error)
	PutReservation(ctx context.Context, r model.Reservation) error
}

// ConditionalWriter is implemented by stores that can re-read a table's
// reservations and write a new one under a single isolation scope. admit
// receives the reservations currently held for r.TableNumber; a non-nil
// return aborts the write and is passed back to the caller unchanged.
type ConditionalWriter interface {
	PutReservationIf(ctx context.Context, r model.Reservation, admit func(existing []model.Reservation) error) error
}

// EventPublisher is notified after a reservation has been written.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, r model.Reservation) error
}
