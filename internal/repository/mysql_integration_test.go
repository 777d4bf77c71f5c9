package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/model"
)

// openTestDB connects to the MySQL instance named by TEST_MYSQL_DSN and
// applies the schema. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	db, err := database.OpenDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM reservations")
		_, _ = db.Exec("DELETE FROM restaurant_tables")
		_, _ = db.Exec("DELETE FROM users")
		_ = db.Close()
	})
	return db
}

func TestTableRepoMySQL(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewTableRepo(db)

	require.NoError(t, repo.PutTable(ctx, model.Table{ID: 10, Number: 5, Attributes: map[string]any{"isVip": true}}))
	require.NoError(t, repo.PutTable(ctx, model.Table{ID: 10, Number: 6, Attributes: map[string]any{"isVip": false}}))

	got, err := repo.GetTable(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Number)
	assert.Equal(t, false, got.Attributes["isVip"])

	found, err := repo.FindTablesByNumber(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = repo.GetTable(ctx, 11)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservationRepoMySQL(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewReservationRepo(db)

	first := model.Reservation{
		ID: uuid.NewString(), TableNumber: 5, ClientName: "Ann", PhoneNumber: "1",
		Date: "2024-06-01", SlotTimeStart: "18:00", SlotTimeEnd: "19:00",
	}
	require.NoError(t, repo.PutReservation(ctx, first))

	second := first
	second.ID = uuid.NewString()
	err := repo.PutReservationIf(ctx, second, func(existing []model.Reservation) error {
		require.Len(t, existing, 1)
		return ErrNotFound
	})
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := repo.ListReservations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, first, all[0])
}

func TestUserRepoMySQL(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	_, err := repo.CreateUser(ctx, model.User{Email: "ann@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, model.User{Email: "ANN@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailExists)

	require.NoError(t, repo.ConfirmUser(ctx, "ann@example.com"))
	require.NoError(t, repo.ConfirmUser(ctx, "ann@example.com"))
	assert.ErrorIs(t, repo.ConfirmUser(ctx, "bob@example.com"), ErrNotFound)
}
