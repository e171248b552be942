package interview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talentdesk/internal/adapters/storage"
	domain "talentdesk/internal/domain/interview"
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

const interviewColumns = `id, application_id, interviewer_id, skeleton_id, assigned_by, status,
	scheduled_at, duration_minutes, location_type, location_address, notes, completed_at, created_at, updated_at`

// Save persists an Interview (insert or update).
// PRE: iv has a valid ID
// POST: Interview row persisted with current status
func (s *SQLiteStore) Save(ctx context.Context, iv domain.Interview) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interview (`+interviewColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, scheduled_at=excluded.scheduled_at,
		   duration_minutes=excluded.duration_minutes, location_type=excluded.location_type,
		   location_address=excluded.location_address, notes=excluded.notes,
		   completed_at=excluded.completed_at, updated_at=excluded.updated_at`,
		iv.ID, iv.ApplicationID, iv.InterviewerID, iv.SkeletonID, iv.AssignedByID, iv.Status,
		nullTime(iv.ScheduledAt), iv.DurationMinutes, iv.LocationType, iv.LocationAddress,
		iv.Notes, nullTime(iv.CompletedAt), iv.CreatedAt.Format(timeLayout), nullTime(iv.UpdatedAt))
	return err
}

// GetByID retrieves an active (non-cancelled) interview.
// PRE: id is non-empty
// POST: Returns the interview or domain.ErrNotFound; cancelled rows are not visible
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Interview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+interviewColumns+` FROM interview WHERE id = ? AND status != ?`,
		id, domain.StatusCancelled)
	return scanInterview(row.Scan)
}

// GetByIDAny retrieves an interview regardless of status, for audit surfaces.
// PRE: id is non-empty
// POST: Returns the interview or domain.ErrNotFound
func (s *SQLiteStore) GetByIDAny(ctx context.Context, id string) (domain.Interview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+interviewColumns+` FROM interview WHERE id = ?`, id)
	return scanInterview(row.Scan)
}

// ExistsForAssignment reports whether a live interview already exists for the
// exact (application, interviewer, skeleton) triple.
// PRE: all three ids are non-empty
// POST: Returns true if a non-cancelled row matches
func (s *SQLiteStore) ExistsForAssignment(ctx context.Context, applicationID, interviewerID, skeletonID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interview
		 WHERE application_id = ? AND interviewer_id = ? AND skeleton_id = ? AND status != ?`,
		applicationID, interviewerID, skeletonID, domain.StatusCancelled).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveResponses saves the response list for an interview, replacing any existing.
// PRE: interviewID exists
// POST: Responses persisted in order
func (s *SQLiteStore) SaveResponses(ctx context.Context, interviewID string, responses []domain.Response) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM interview_response WHERE interview_id = ?`, interviewID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO interview_response (interview_id, focus_area_title, feedback, rating, position)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range responses {
		if _, err := stmt.ExecContext(ctx, interviewID, r.FocusAreaTitle, r.Feedback, r.Rating, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetResponses retrieves all responses for an interview in their saved order.
// PRE: interviewID is non-empty
// POST: Returns the response list
func (s *SQLiteStore) GetResponses(ctx context.Context, interviewID string) ([]domain.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT interview_id, focus_area_title, feedback, rating
		 FROM interview_response WHERE interview_id = ? ORDER BY position ASC`, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []domain.Response
	for rows.Next() {
		var r domain.Response
		if err := rows.Scan(&r.InterviewID, &r.FocusAreaTitle, &r.Feedback, &r.Rating); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// GetSkeleton retrieves a skeleton with its focus areas in order.
// PRE: id is non-empty
// POST: Returns the skeleton or domain.ErrNotFound
func (s *SQLiteStore) GetSkeleton(ctx context.Context, id string) (domain.Skeleton, error) {
	var sk domain.Skeleton
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM skeleton WHERE id = ?`, id).
		Scan(&sk.ID, &sk.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Skeleton{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Skeleton{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title FROM skeleton_focus_area WHERE skeleton_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return domain.Skeleton{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var fa domain.FocusArea
		if err := rows.Scan(&fa.ID, &fa.Title); err != nil {
			return domain.Skeleton{}, err
		}
		sk.FocusAreas = append(sk.FocusAreas, fa)
	}
	return sk, rows.Err()
}

// SaveSkeleton persists a skeleton and its focus areas, replacing any existing.
// PRE: sk has a valid ID
// POST: Skeleton and focus areas persisted
func (s *SQLiteStore) SaveSkeleton(ctx context.Context, sk domain.Skeleton) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO skeleton (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name`, sk.ID, sk.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM skeleton_focus_area WHERE skeleton_id = ?`, sk.ID); err != nil {
		return err
	}
	for i, fa := range sk.FocusAreas {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skeleton_focus_area (id, skeleton_id, title, position) VALUES (?, ?, ?, ?)`,
			fa.ID, sk.ID, fa.Title, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanInterview(scan func(dest ...any) error) (domain.Interview, error) {
	var iv domain.Interview
	var scheduledAt, completedAt, updatedAt sql.NullString
	var createdAt string
	err := scan(&iv.ID, &iv.ApplicationID, &iv.InterviewerID, &iv.SkeletonID, &iv.AssignedByID,
		&iv.Status, &scheduledAt, &iv.DurationMinutes, &iv.LocationType, &iv.LocationAddress,
		&iv.Notes, &completedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Interview{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Interview{}, err
	}
	if iv.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return domain.Interview{}, fmt.Errorf("parse created_at: %w", err)
	}
	if scheduledAt.Valid {
		if iv.ScheduledAt, err = time.Parse(timeLayout, scheduledAt.String); err != nil {
			return domain.Interview{}, fmt.Errorf("parse scheduled_at: %w", err)
		}
	}
	if completedAt.Valid {
		if iv.CompletedAt, err = time.Parse(timeLayout, completedAt.String); err != nil {
			return domain.Interview{}, fmt.Errorf("parse completed_at: %w", err)
		}
	}
	if updatedAt.Valid {
		if iv.UpdatedAt, err = time.Parse(timeLayout, updatedAt.String); err != nil {
			return domain.Interview{}, fmt.Errorf("parse updated_at: %w", err)
		}
	}
	return iv, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
