// Package schedule turns a reservation's calendar date and time-of-day
// strings into comparable instants.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformed is returned when a date/time pair cannot be parsed.
var ErrMalformed = errors.New("malformed date or time")

// Date and time-of-day are joined with a single space before parsing,
// so "2024-06-01" + "18:00" becomes "2024-06-01 18:00".
var layouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Interval is the half-open range [Start, End) occupied by a reservation.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Parse builds an Interval from a date and two time-of-day strings. Both
// instants are parsed in time.Local. Stored and candidate reservations go
// through the same rule, so comparisons stay correct whatever the zone.
// Parse does not require start < end; use Valid for that.
func Parse(date, start, end string) (Interval, error) {
	s, err := At(date, start)
	if err != nil {
		return Interval{}, err
	}
	e, err := At(date, end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

// At parses date + " " + timeOfDay as a local timestamp.
func At(date, timeOfDay string) (time.Time, error) {
	raw := strings.TrimSpace(date) + " " + strings.TrimSpace(timeOfDay)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
}

// Overlaps reports whether two half-open intervals share at least one
// instant. Touching endpoints do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return o.Start.Before(i.End) && o.End.After(i.Start)
}

// Valid reports whether the interval starts strictly before it ends.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}
