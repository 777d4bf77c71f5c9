package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/table-reservation/internal/model"
)

// TableRepo is the MySQL-backed table catalog. Fields other than id and
// number are stored as a JSON document in the attributes column.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// ListTables returns every table ordered by id.
func (r *TableRepo) ListTables(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, number, attributes FROM restaurant_tables ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTables(rows)
}

// PutTable writes the table, replacing any existing row with the same id.
func (r *TableRepo) PutTable(ctx context.Context, t model.Table) error {
	attrs, err := encodeAttributes(t.Attributes)
	if err != nil {
		return err
	}
	const q = `INSERT INTO restaurant_tables (id, number, attributes) VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE number = VALUES(number), attributes = VALUES(attributes)`
	_, err = r.db.ExecContext(ctx, q, t.ID, t.Number, attrs)
	return err
}

// GetTable returns the table with the given id or ErrNotFound.
func (r *TableRepo) GetTable(ctx context.Context, id int64) (model.Table, error) {
	const q = `SELECT id, number, attributes FROM restaurant_tables WHERE id = ?`
	var (
		t     model.Table
		attrs sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Number, &attrs)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Table{}, ErrNotFound
	}
	if err != nil {
		return model.Table{}, err
	}
	if t.Attributes, err = decodeAttributes(attrs); err != nil {
		return model.Table{}, fmt.Errorf("table %d: %w", t.ID, err)
	}
	return t, nil
}

// FindTablesByNumber returns all tables whose number matches.
func (r *TableRepo) FindTablesByNumber(ctx context.Context, number int) ([]model.Table, error) {
	const q = `SELECT id, number, attributes FROM restaurant_tables WHERE number = ?`
	rows, err := r.db.QueryContext(ctx, q, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTables(rows)
}

func scanTables(rows *sql.Rows) ([]model.Table, error) {
	tables := []model.Table{}
	for rows.Next() {
		var (
			t     model.Table
			attrs sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Number, &attrs); err != nil {
			return nil, err
		}
		var err error
		if t.Attributes, err = decodeAttributes(attrs); err != nil {
			return nil, fmt.Errorf("table %d: %w", t.ID, err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

func encodeAttributes(attrs map[string]any) (sql.NullString, error) {
	if len(attrs) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode attributes: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeAttributes(s sql.NullString) (map[string]any, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(s.String), &attrs); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	return attrs, nil
}
