package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/reservation"
)

// Admitter decides whether a reservation request is accepted.
type Admitter interface {
	CreateReservation(ctx context.Context, req reservation.Request) (string, error)
}

// ReservationLister lists stored reservations.
type ReservationLister interface {
	ListReservations(ctx context.Context) ([]model.Reservation, error)
}

// ReservationHandler serves /reservations.
type ReservationHandler struct {
	Admission    Admitter
	Reservations ReservationLister
	Log          logrus.FieldLogger
}

// NewReservationHandler panics if a dependency is nil.
func NewReservationHandler(admission Admitter, reservations ReservationLister, log logrus.FieldLogger) *ReservationHandler {
	if admission == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Admission: admission, Reservations: reservations, Log: log}
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		s = strings.TrimSpace(str)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %s", string(b))
	}
	*f = flexInt(n)
	return nil
}

type createReservationReq struct {
	TableNumber   flexInt `json:"tableNumber"`
	ClientName    string  `json:"clientName"`
	PhoneNumber   string  `json:"phoneNumber"`
	Date          string  `json:"date"`
	SlotTimeStart string  `json:"slotTimeStart"`
	SlotTimeEnd   string  `json:"slotTimeEnd"`
}

// List handles GET /reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	list, err := h.Reservations.ListReservations(c.Request().Context())
	if err != nil {
		h.Log.WithError(err).Error("list reservations failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to fetch reservations"})
	}
	if list == nil {
		list = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Create handles POST /reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "InvalidRequest", "message": "invalid request body"})
	}
	id, err := h.Admission.CreateReservation(c.Request().Context(), reservation.Request{
		TableNumber:   int(req.TableNumber),
		ClientName:    req.ClientName,
		PhoneNumber:   req.PhoneNumber,
		Date:          req.Date,
		SlotTimeStart: req.SlotTimeStart,
		SlotTimeEnd:   req.SlotTimeEnd,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"reservationId": id})
	case errors.Is(err, reservation.ErrTableNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "TableNotFound", "message": reservation.ErrTableNotFound.Error()})
	case errors.Is(err, reservation.ErrSlotConflict):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "SlotConflict", "message": reservation.ErrSlotConflict.Error()})
	case errors.Is(err, reservation.ErrInvalidRequest), errors.Is(err, reservation.ErrMalformedInterval):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "InvalidRequest", "message": err.Error()})
	default:
		h.Log.WithError(err).WithField("table_number", int(req.TableNumber)).Error("create reservation failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create reservation"})
	}
}
