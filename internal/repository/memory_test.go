package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func TestMemoryStoreTables(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.PutTable(ctx, model.Table{ID: 2, Number: 5, Attributes: map[string]any{"places": float64(4)}}))
	require.NoError(t, m.PutTable(ctx, model.Table{ID: 1, Number: 7}))

	tables, err := m.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, int64(1), tables[0].ID)
	assert.Equal(t, int64(2), tables[1].ID)

	got, err := m.GetTable(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Number)
	assert.Equal(t, float64(4), got.Attributes["places"])

	// returned values must not alias stored ones
	got.Attributes["places"] = float64(99)
	again, err := m.GetTable(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, float64(4), again.Attributes["places"])

	byNumber, err := m.FindTablesByNumber(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, byNumber, 1)

	none, err := m.FindTablesByNumber(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = m.GetTable(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	// put replaces by id
	require.NoError(t, m.PutTable(ctx, model.Table{ID: 1, Number: 8}))
	replaced, err := m.GetTable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, replaced.Number)
}

func TestMemoryStoreReservations(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.PutReservation(ctx, model.Reservation{ID: "a", TableNumber: 5}))
	require.NoError(t, m.PutReservation(ctx, model.Reservation{ID: "b", TableNumber: 6}))
	require.NoError(t, m.PutReservation(ctx, model.Reservation{ID: "c", TableNumber: 5}))

	all, err := m.ListReservations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)

	forFive, err := m.ReservationsForTable(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, forFive, 2)

	empty, err := m.ReservationsForTable(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryStorePutReservationIf(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.PutReservation(ctx, model.Reservation{ID: "a", TableNumber: 5}))

	var seen []model.Reservation
	err := m.PutReservationIf(ctx, model.Reservation{ID: "b", TableNumber: 5}, func(existing []model.Reservation) error {
		seen = existing
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "a", seen[0].ID)

	reject := errors.New("nope")
	err = m.PutReservationIf(ctx, model.Reservation{ID: "c", TableNumber: 5}, func([]model.Reservation) error {
		return reject
	})
	assert.ErrorIs(t, err, reject)

	all, err := m.ListReservations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	id, err := m.CreateUser(ctx, model.User{Email: " Ann@Example.com ", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	_, err = m.CreateUser(ctx, model.User{Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrEmailExists)

	u, err := m.GetUserByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.False(t, u.Confirmed)

	require.NoError(t, m.ConfirmUser(ctx, "ann@example.com"))
	u, err = m.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, u.Confirmed)

	assert.ErrorIs(t, m.ConfirmUser(ctx, "bob@example.com"), ErrNotFound)
	_, err = m.GetUserByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemoryStore()

	_, err := m.FindTablesByNumber(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.PutReservation(ctx, model.Reservation{ID: "x"}), context.Canceled)
}
