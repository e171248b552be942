package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talentdesk/internal/adapters/storage"
	domain "talentdesk/internal/domain/notification"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts a new delivery record. Status is forced to pending so every
// record starts as a write-ahead entry regardless of what the caller set.
// PRE: r has been validated
// POST: Record persisted with status pending
func (s *SQLiteStore) Create(ctx context.Context, r domain.Record) error {
	isHTML := 0
	if r.IsHTML {
		isHTML = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_record (id, recipient_address, subject, body, template_name,
		                                  is_html, status, error_message, retry_count, last_retry_at,
		                                  related_entity_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULL, 0, NULL, ?, ?, ?)`,
		r.ID, r.RecipientAddress, r.Subject, r.Body, r.TemplateName,
		isHTML, domain.StatusPending,
		nullStr(r.RelatedEntityID), r.CreatedAt.Format(timeLayout), nullTime(r.UpdatedAt))
	return err
}

// UpdateDelivery writes the mutable delivery columns for an existing record.
// The content columns are deliberately absent from the statement.
// PRE: r.ID exists
// POST: status, error_message, retry bookkeeping and updated_at are persisted
func (s *SQLiteStore) UpdateDelivery(ctx context.Context, r domain.Record) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notification_record
		 SET status = ?, error_message = ?, retry_count = ?, last_retry_at = ?, updated_at = ?
		 WHERE id = ?`,
		r.Status, nullStr(r.ErrorMessage), r.RetryCount, nullTime(r.LastRetryAt),
		nullTime(r.UpdatedAt), r.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID retrieves a record by its ID.
// PRE: id is non-empty
// POST: Returns the record or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, recipient_address, subject, body, template_name, is_html, status,
		        error_message, retry_count, last_retry_at, related_entity_id, created_at, updated_at
		 FROM notification_record WHERE id = ?`, id)
	r, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, domain.ErrNotFound
	}
	return r, err
}

// ListByStatus retrieves all records in the given status, oldest first.
// PRE: status is one of the domain status constants
// POST: Returns matching records sorted by created_at ASC
func (s *SQLiteStore) ListByStatus(ctx context.Context, status string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipient_address, subject, body, template_name, is_html, status,
		        error_message, retry_count, last_retry_at, related_entity_id, created_at, updated_at
		 FROM notification_record WHERE status = ? ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountByStatus returns record counts grouped by status.
// PRE: none
// POST: Returns a map keyed by status; absent statuses have no entry
func (s *SQLiteStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM notification_record GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (domain.Record, error) {
	var r domain.Record
	var isHTML int
	var errMsg, lastRetryAt, relatedID, updatedAt sql.NullString
	var createdAt string
	err := scan(&r.ID, &r.RecipientAddress, &r.Subject, &r.Body, &r.TemplateName,
		&isHTML, &r.Status, &errMsg, &r.RetryCount, &lastRetryAt, &relatedID, &createdAt, &updatedAt)
	if err != nil {
		return domain.Record{}, err
	}
	r.IsHTML = isHTML == 1
	if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return domain.Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	if errMsg.Valid {
		r.ErrorMessage = errMsg.String
	}
	if lastRetryAt.Valid {
		if r.LastRetryAt, err = time.Parse(timeLayout, lastRetryAt.String); err != nil {
			return domain.Record{}, fmt.Errorf("parse last_retry_at: %w", err)
		}
	}
	if relatedID.Valid {
		r.RelatedEntityID = relatedID.String
	}
	if updatedAt.Valid {
		if r.UpdatedAt, err = time.Parse(timeLayout, updatedAt.String); err != nil {
			return domain.Record{}, fmt.Errorf("parse updated_at: %w", err)
		}
	}
	return r, nil
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
