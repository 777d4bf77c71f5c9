package reservation

import (
	"context"
	"fmt"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/schedule"
)

// Candidate is the part of a reservation request that conflict detection
// looks at.
type Candidate struct {
	TableNumber   int
	Date          string
	SlotTimeStart string
	SlotTimeEnd   string
}

// Interval parses the candidate's slot.
func (c Candidate) Interval() (schedule.Interval, error) {
	iv, err := schedule.Parse(c.Date, c.SlotTimeStart, c.SlotTimeEnd)
	if err != nil {
		return schedule.Interval{}, fmt.Errorf("%w: %v", ErrMalformedInterval, err)
	}
	return iv, nil
}

// ConflictDetector scans the reservations of one table for an overlap.
type ConflictDetector struct {
	Store Store
}

// NewConflictDetector panics when store is nil.
func NewConflictDetector(store Store) *ConflictDetector {
	if store == nil {
		panic("nil store passed to NewConflictDetector")
	}
	return &ConflictDetector{Store: store}
}

// HasConflict reports whether the candidate overlaps a reservation already
// held for its table. Storage errors and unparsable stored records are
// returned as errors, never as "no conflict".
func (d *ConflictDetector) HasConflict(ctx context.Context, c Candidate) (bool, error) {
	existing, err := d.Store.ReservationsForTable(ctx, c.TableNumber)
	if err != nil {
		return false, fmt.Errorf("list reservations for table %d: %w", c.TableNumber, err)
	}
	return Conflicts(existing, c)
}

// Conflicts is the scan behind HasConflict. Records for other tables are
// ignored. It stops at the first overlapping reservation.
func Conflicts(existing []model.Reservation, c Candidate) (bool, error) {
	want, err := c.Interval()
	if err != nil {
		return false, err
	}
	for _, r := range existing {
		if r.TableNumber != c.TableNumber {
			continue
		}
		held, err := schedule.Parse(r.Date, r.SlotTimeStart, r.SlotTimeEnd)
		if err != nil {
			return false, fmt.Errorf("%w: reservation %s: %v", ErrCorruptReservation, r.ID, err)
		}
		if held.Overlaps(want) {
			return true, nil
		}
	}
	return false, nil
}
