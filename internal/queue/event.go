// Package queue carries reservation events over RabbitMQ: a publisher used
// by the admission controller and a consumer that keeps an audit log.
package queue

import (
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ReservationCreatedQueue is the durable queue events are routed to.
const ReservationCreatedQueue = "reservation.created"

// ReservationCreatedEvent is published after a reservation has been
// written. It carries the full record so consumers never need to query the
// primary store.
type ReservationCreatedEvent struct {
	ReservationID string `json:"reservation_id"`
	TableNumber   int    `json:"table_number"`
	ClientName    string `json:"client_name"`
	PhoneNumber   string `json:"phone_number"`
	Date          string `json:"date"`
	SlotTimeStart string `json:"slot_time_start"`
	SlotTimeEnd   string `json:"slot_time_end"`
	CreatedAt     string `json:"created_at"` // RFC 3339, UTC
}

// NewReservationCreatedEvent builds the event for r, stamped with now.
func NewReservationCreatedEvent(r model.Reservation, now time.Time) ReservationCreatedEvent {
	return ReservationCreatedEvent{
		ReservationID: r.ID,
		TableNumber:   r.TableNumber,
		ClientName:    r.ClientName,
		PhoneNumber:   r.PhoneNumber,
		Date:          r.Date,
		SlotTimeStart: r.SlotTimeStart,
		SlotTimeEnd:   r.SlotTimeEnd,
		CreatedAt:     now.UTC().Format(time.RFC3339),
	}
}
