package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Request is a client's ask for a table slot.
type Request struct {
	TableNumber   int
	ClientName    string
	PhoneNumber   string
	Date          string
	SlotTimeStart string
	SlotTimeEnd   string
}

// Candidate returns the fields conflict detection needs.
func (r Request) Candidate() Candidate {
	return Candidate{
		TableNumber:   r.TableNumber,
		Date:          r.Date,
		SlotTimeStart: r.SlotTimeStart,
		SlotTimeEnd:   r.SlotTimeEnd,
	}
}

// Validate checks the contact fields. Date and time fields are checked
// only after the table is known to exist, so an unknown table is always
// reported as ErrTableNotFound.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		return fmt.Errorf("%w: phoneNumber is required", ErrInvalidRequest)
	}
	return nil
}

func (r Request) record(id string) model.Reservation {
	return model.Reservation{
		ID:            id,
		TableNumber:   r.TableNumber,
		ClientName:    strings.TrimSpace(r.ClientName),
		PhoneNumber:   strings.TrimSpace(r.PhoneNumber),
		Date:          strings.TrimSpace(r.Date),
		SlotTimeStart: strings.TrimSpace(r.SlotTimeStart),
		SlotTimeEnd:   strings.TrimSpace(r.SlotTimeEnd),
	}
}

// DefaultPublishTimeout bounds one background event publish.
const DefaultPublishTimeout = 5 * time.Second

// Controller admits or rejects reservation requests. It holds no state
// of its own between calls; all shared state lives in the store.
type Controller struct {
	Availability   *AvailabilityChecker
	Detector       *ConflictDetector
	Store          Store
	Events         EventPublisher // optional
	PublishTimeout time.Duration
	NewID          func() string
	Log            logrus.FieldLogger

	publishing sync.WaitGroup
}

// NewController wires a controller from its collaborators. events may be
// nil.
func NewController(catalog Catalog, store Store, events EventPublisher, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		Availability:   NewAvailabilityChecker(catalog, log),
		Detector:       NewConflictDetector(store),
		Store:          store,
		Events:         events,
		PublishTimeout: DefaultPublishTimeout,
		NewID:          func() string { return uuid.NewString() },
		Log:            log,
	}
}

// CreateReservation runs the admission steps in order: table lookup,
// conflict scan, id generation, single write. It returns the new id, or
// ErrTableNotFound / ErrSlotConflict for business rejections. A failed
// write is not compensated; every step before it is a read, so the whole
// call can be retried.
//
// When the store implements ConditionalWriter the conflict scan is
// repeated inside the write, which closes the window between check and
// write for concurrent requests on the same table.
func (c *Controller) CreateReservation(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	log := c.Log.WithField("table_number", req.TableNumber)

	if !c.Availability.TableExists(ctx, req.TableNumber) {
		log.Debug("reservation rejected: table not found")
		return "", ErrTableNotFound
	}

	cand := req.Candidate()
	iv, err := cand.Interval()
	if err != nil {
		return "", err
	}
	if !iv.Valid() {
		return "", fmt.Errorf("%w: slotTimeEnd must be after slotTimeStart", ErrMalformedInterval)
	}

	conflict, err := c.Detector.HasConflict(ctx, cand)
	if err != nil {
		return "", err
	}
	if conflict {
		log.Debug("reservation rejected: slot conflict")
		return "", ErrSlotConflict
	}

	rec := req.record(c.NewID())
	if err := c.put(ctx, rec); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			log.Debug("reservation rejected at write: slot conflict")
			return "", ErrSlotConflict
		}
		return "", fmt.Errorf("put reservation: %w", err)
	}
	log.WithField("reservation_id", rec.ID).Info("reservation created")

	c.publish(ctx, rec, log)
	return rec.ID, nil
}

// publish sends reservation.created in the background. The reservation is
// already stored, so the caller's response never waits on the broker and a
// failed publish is only logged.
func (c *Controller) publish(ctx context.Context, rec model.Reservation, log logrus.FieldLogger) {
	if c.Events == nil {
		return
	}
	timeout := c.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	c.publishing.Add(1)
	go func() {
		defer c.publishing.Done()
		defer cancel()
		if err := c.Events.PublishReservationCreated(pctx, rec); err != nil {
			log.WithError(err).WithField("reservation_id", rec.ID).Warn("publish reservation.created failed")
		}
	}()
}

// Wait blocks until every background publish has returned.
func (c *Controller) Wait() {
	c.publishing.Wait()
}

func (c *Controller) put(ctx context.Context, rec model.Reservation) error {
	cw, ok := c.Store.(ConditionalWriter)
	if !ok {
		return c.Store.PutReservation(ctx, rec)
	}
	cand := Candidate{
		TableNumber:   rec.TableNumber,
		Date:          rec.Date,
		SlotTimeStart: rec.SlotTimeStart,
		SlotTimeEnd:   rec.SlotTimeEnd,
	}
	return cw.PutReservationIf(ctx, rec, func(existing []model.Reservation) error {
		conflict, err := Conflicts(existing, cand)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}
		return nil
	})
}
