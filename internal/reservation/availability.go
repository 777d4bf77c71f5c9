package reservation

import (
	"context"

	"github.com/sirupsen/logrus"
)

// AvailabilityChecker answers whether a table number is in the catalog.
//
// It fails closed: when the catalog cannot be read the table is reported
// as missing, so the reservation is rejected instead of being admitted
// against an unknown catalog. The swallowed error is logged at warn level.
type AvailabilityChecker struct {
	Catalog Catalog
	Log     logrus.FieldLogger
}

// NewAvailabilityChecker panics when catalog is nil.
func NewAvailabilityChecker(catalog Catalog, log logrus.FieldLogger) *AvailabilityChecker {
	if catalog == nil {
		panic("nil catalog passed to NewAvailabilityChecker")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AvailabilityChecker{Catalog: catalog, Log: log}
}

// TableExists reports whether at least one catalog record has the given
// number.
func (a *AvailabilityChecker) TableExists(ctx context.Context, tableNumber int) bool {
	tables, err := a.Catalog.FindTablesByNumber(ctx, tableNumber)
	if err != nil {
		a.Log.WithError(err).WithField("table_number", tableNumber).
			Warn("catalog lookup failed, treating table as missing")
		return false
	}
	return len(tables) > 0
}
