package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ReservationRepo stores reservations in MySQL. Date and slot times are
// kept as the strings the client sent; interval arithmetic happens in the
// schedule package so that stored and candidate slots parse the same way.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, table_number, client_name, phone_number, res_date, slot_time_start, slot_time_end`

// ListReservations returns every reservation in creation order.
func (r *ReservationRepo) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

// ReservationsForTable returns the reservations held for one table number.
func (r *ReservationRepo) ReservationsForTable(ctx context.Context, tableNumber int) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE table_number = ?`
	rows, err := r.db.QueryContext(ctx, q, tableNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

// PutReservation inserts a reservation as a single statement.
func (r *ReservationRepo) PutReservation(ctx context.Context, res model.Reservation) error {
	return insertReservation(ctx, r.db, res)
}

// PutReservationIf inserts res only if admit accepts the reservations
// currently held for res.TableNumber. The rows are read with FOR UPDATE
// inside the insert's transaction; the index on table_number makes InnoDB
// take next-key locks, so a concurrent call for the same table waits
// until this one commits or rolls back.
//
// Two first reservations for an empty table both hold the gap lock and
// one of them is picked as a deadlock victim; that attempt is retried so
// it sees the other's row.
func (r *ReservationRepo) PutReservationIf(ctx context.Context, res model.Reservation, admit func([]model.Reservation) error) error {
	var err error
	for attempt := 0; attempt < maxDeadlockRetries; attempt++ {
		err = r.putReservationIf(ctx, res, admit)
		var me *mysql.MySQLError
		if !errors.As(err, &me) || me.Number != mysqlDeadlock {
			return err
		}
	}
	return err
}

const (
	mysqlDeadlock      = 1213 // ER_LOCK_DEADLOCK
	maxDeadlockRetries = 3
)

func (r *ReservationRepo) putReservationIf(ctx context.Context, res model.Reservation, admit func([]model.Reservation) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE table_number = ? FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, res.TableNumber)
	if err != nil {
		return err
	}
	existing, err := scanReservations(rows)
	rows.Close()
	if err != nil {
		return err
	}
	if err := admit(existing); err != nil {
		return err
	}
	if err := insertReservation(ctx, tx, res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertReservation(ctx context.Context, db execer, res model.Reservation) error {
	const q = `INSERT INTO reservations (id, table_number, client_name, phone_number, res_date, slot_time_start, slot_time_end)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		res.ID, res.TableNumber, res.ClientName, res.PhoneNumber, res.Date, res.SlotTimeStart, res.SlotTimeEnd)
	return err
}

func scanReservations(rows *sql.Rows) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(
			&res.ID, &res.TableNumber, &res.ClientName, &res.PhoneNumber, &res.Date, &res.SlotTimeStart, &res.SlotTimeEnd,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
