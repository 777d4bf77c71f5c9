package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// TableStore is the catalog persistence behind /tables.
type TableStore interface {
	ListTables(ctx context.Context) ([]model.Table, error)
	PutTable(ctx context.Context, t model.Table) error
	GetTable(ctx context.Context, id int64) (model.Table, error)
}

// TableHandler serves the table catalog.
type TableHandler struct {
	Tables TableStore
	Log    logrus.FieldLogger
}

// NewTableHandler panics if tables is nil.
func NewTableHandler(tables TableStore, log logrus.FieldLogger) *TableHandler {
	if tables == nil {
		panic("nil table store passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables, Log: log}
}

// List handles GET /tables.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.Tables.ListTables(c.Request().Context())
	if err != nil {
		h.Log.WithError(err).Error("list tables failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch tables"})
	}
	if tables == nil {
		tables = []model.Table{}
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// Create handles POST /tables. The body is stored as sent, replacing any
// table with the same id. id and number must be positive integers.
func (h *TableHandler) Create(c echo.Context) error {
	var t model.Table
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if t.ID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id must be a positive integer"})
	}
	if t.Number <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "number must be a positive integer"})
	}
	if err := h.Tables.PutTable(c.Request().Context(), t); err != nil {
		h.Log.WithError(err).WithField("table_id", t.ID).Error("put table failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "error"})
	}
	h.Log.WithFields(logrus.Fields{"table_id": t.ID, "number": t.Number}).Info("table stored")
	return c.JSON(http.StatusOK, echo.Map{"id": t.ID})
}

// Get handles GET /tables/:tableId and returns the stored fields.
func (h *TableHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("tableId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Table not found"})
	}
	t, err := h.Tables.GetTable(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Table not found"})
	}
	if err != nil {
		h.Log.WithError(err).WithField("table_id", id).Error("get table failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch table data"})
	}
	return c.JSON(http.StatusOK, t)
}
