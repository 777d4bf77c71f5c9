package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// MemoryStore keeps tables, reservations and users in process memory. It
// has the same method sets as the MySQL repositories and is used by tests
// and by STORAGE_DRIVER=memory. Values are copied in and out.
type MemoryStore struct {
	mu           sync.RWMutex
	tables       map[int64]model.Table
	reservations []model.Reservation
	users        map[string]model.User
	lastUserID   uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[int64]model.Table),
		users:  make(map[string]model.User),
	}
}

// ListTables returns every table ordered by id.
func (m *MemoryStore) ListTables(ctx context.Context) ([]model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Table, 0, len(m.tables))
	for _, t := range m.tables {
		out = append(out, copyTable(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PutTable writes t, replacing any table with the same id.
func (m *MemoryStore) PutTable(ctx context.Context, t model.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.ID] = copyTable(t)
	return nil
}

// GetTable returns the table with the given id or ErrNotFound.
func (m *MemoryStore) GetTable(ctx context.Context, id int64) (model.Table, error) {
	if err := ctx.Err(); err != nil {
		return model.Table{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	if !ok {
		return model.Table{}, ErrNotFound
	}
	return copyTable(t), nil
}

// FindTablesByNumber returns all tables whose number matches.
func (m *MemoryStore) FindTablesByNumber(ctx context.Context, number int) ([]model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Table
	for _, t := range m.tables {
		if t.Number == number {
			out = append(out, copyTable(t))
		}
	}
	return out, nil
}

// ListReservations returns every reservation in insertion order.
func (m *MemoryStore) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Reservation, len(m.reservations))
	copy(out, m.reservations)
	return out, nil
}

// ReservationsForTable returns the reservations held for one table number.
func (m *MemoryStore) ReservationsForTable(ctx context.Context, tableNumber int) ([]model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.forTableLocked(tableNumber), nil
}

// PutReservation appends res.
func (m *MemoryStore) PutReservation(ctx context.Context, res model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = append(m.reservations, res)
	return nil
}

// PutReservationIf appends res if admit accepts the table's current
// reservations. admit runs under the write lock.
func (m *MemoryStore) PutReservationIf(ctx context.Context, res model.Reservation, admit func([]model.Reservation) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := admit(m.forTableLocked(res.TableNumber)); err != nil {
		return err
	}
	m.reservations = append(m.reservations, res)
	return nil
}

func (m *MemoryStore) forTableLocked(tableNumber int) []model.Reservation {
	out := []model.Reservation{}
	for _, r := range m.reservations {
		if r.TableNumber == tableNumber {
			out = append(out, r)
		}
	}
	return out
}

// CreateUser stores u and returns its ID, or ErrEmailExists.
func (m *MemoryStore) CreateUser(ctx context.Context, u model.User) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	email := normalizeEmail(u.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return 0, ErrEmailExists
	}
	m.lastUserID++
	u.ID = m.lastUserID
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	m.users[email] = u
	return u.ID, nil
}

// GetUserByEmail fetches a user by normalized email.
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[normalizeEmail(email)]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// ConfirmUser marks the user as confirmed.
func (m *MemoryStore) ConfirmUser(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email = normalizeEmail(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return ErrNotFound
	}
	u.Confirmed = true
	m.users[email] = u
	return nil
}

func copyTable(t model.Table) model.Table {
	if t.Attributes == nil {
		return t
	}
	attrs := make(map[string]any, len(t.Attributes))
	for k, v := range t.Attributes {
		attrs[k] = v
	}
	t.Attributes = attrs
	return t
}
