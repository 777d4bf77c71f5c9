package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/table-reservation/internal/model"
)

// UserRepo persists accounts of the local identity provider.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// CreateUser inserts u (PasswordHash must already be set) and returns its ID.
func (r *UserRepo) CreateUser(ctx context.Context, u model.User) (uint64, error) {
	email := normalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, confirmed) VALUES (?,?,?,?,?)",
		email, u.PasswordHash, u.FirstName, u.LastName, u.Confirmed)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetUserByEmail fetches a user by normalized email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,first_name,last_name,confirmed,created_at FROM users WHERE email=? LIMIT 1",
		normalizeEmail(email)).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Confirmed, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ConfirmUser marks the user as confirmed. Confirming twice is not an error.
func (r *UserRepo) ConfirmUser(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET confirmed=TRUE WHERE email=?", email)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	// Zero rows affected is also what MySQL reports for an already
	// confirmed user, so look the row up before giving up.
	_, err = r.GetUserByEmail(ctx, email)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
