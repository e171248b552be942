package account

import (
	"context"
	"database/sql"
	"errors"

	"talentdesk/internal/adapters/storage"
	"talentdesk/internal/domain/recruiting"
)

// ErrNotFound is returned when no account matches the given id.
var ErrNotFound = errors.New("account not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an account by its ID.
// PRE: id is non-empty
// POST: Returns the account or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (recruiting.User, error) {
	var u recruiting.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role FROM account WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return recruiting.User{}, ErrNotFound
	}
	return u, err
}

// Save persists an account (insert or update).
// PRE: u has a valid ID
// POST: Account persisted
func (s *SQLiteStore) Save(ctx context.Context, u recruiting.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, name, email, role) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, role=excluded.role`,
		u.ID, u.Name, u.Email, u.Role)
	return err
}
