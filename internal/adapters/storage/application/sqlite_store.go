package application

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"talentdesk/internal/adapters/storage"
	"talentdesk/internal/domain/recruiting"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// ErrNotFound is returned when no application matches the given id.
var ErrNotFound = errors.New("application not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const applicationSelect = `
	SELECT a.id, a.status, a.created_at, a.updated_at,
	       c.id, c.first_name, c.last_name, c.email,
	       j.id, j.title, j.department,
	       u.id, u.name, u.email, u.role
	FROM application a
	JOIN candidate c ON c.id = a.candidate_id
	JOIN job j ON j.id = a.job_id
	LEFT JOIN account u ON u.id = a.shortlisted_by`

// GetByID retrieves an application hydrated with candidate, job and the
// shortlisting admin if one is set.
// PRE: id is non-empty
// POST: Returns the application or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (recruiting.Application, error) {
	row := s.db.QueryRowContext(ctx, applicationSelect+` WHERE a.id = ?`, id)
	app, err := scanApplication(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return recruiting.Application{}, ErrNotFound
	}
	return app, err
}

// List retrieves applications matching the filter, oldest first.
// PRE: none
// POST: Returns matching applications; empty filter returns all
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]recruiting.Application, error) {
	query := applicationSelect + ` WHERE 1=1`
	var args []interface{}
	if filter.JobID != "" {
		query += " AND a.job_id = ?"
		args = append(args, filter.JobID)
	}
	if filter.Status != "" {
		query += " AND a.status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY a.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// ListByIDs retrieves the named applications, preserving only existing ones.
// PRE: none
// POST: Returns applications for ids that exist, in creation order
func (s *SQLiteStore) ListByIDs(ctx context.Context, ids []string) ([]recruiting.Application, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		applicationSelect+` WHERE a.id IN (`+placeholders+`) ORDER BY a.created_at ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// Save persists an application row (insert or update).
// PRE: app.Candidate and app.Job rows already exist
// POST: Application persisted
func (s *SQLiteStore) Save(ctx context.Context, app recruiting.Application) error {
	var shortlistedBy interface{}
	if app.ShortlistedBy != nil {
		shortlistedBy = app.ShortlistedBy.ID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO application (id, candidate_id, job_id, status, shortlisted_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, shortlisted_by=excluded.shortlisted_by, updated_at=excluded.updated_at`,
		app.ID, app.Candidate.ID, app.Job.ID, app.Status, shortlistedBy,
		app.CreatedAt.Format(timeLayout), nullTime(app.UpdatedAt))
	return err
}

// SetStatus updates an application's status and, when shortlistedBy is
// non-empty, records who shortlisted it.
// PRE: id exists
// POST: Status persisted; returns ErrNotFound for unknown ids
func (s *SQLiteStore) SetStatus(ctx context.Context, id, status, shortlistedBy string) error {
	var res sql.Result
	var err error
	if shortlistedBy != "" {
		res, err = s.db.ExecContext(ctx,
			`UPDATE application SET status = ?, shortlisted_by = ?, updated_at = ? WHERE id = ?`,
			status, shortlistedBy, time.Now().Format(timeLayout), id)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE application SET status = ?, updated_at = ? WHERE id = ?`,
			status, time.Now().Format(timeLayout), id)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveCandidate persists a candidate row.
func (s *SQLiteStore) SaveCandidate(ctx context.Context, c recruiting.Candidate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO candidate (id, first_name, last_name, email) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   first_name=excluded.first_name, last_name=excluded.last_name, email=excluded.email`,
		c.ID, c.FirstName, c.LastName, c.Email)
	return err
}

// SaveJob persists a job row.
func (s *SQLiteStore) SaveJob(ctx context.Context, j recruiting.Job) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job (id, title, department) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title=excluded.title, department=excluded.department`,
		j.ID, j.Title, j.Department)
	return err
}

func scanApplication(scan func(dest ...any) error) (recruiting.Application, error) {
	var app recruiting.Application
	var createdAt string
	var updatedAt sql.NullString
	var adminID, adminName, adminEmail, adminRole sql.NullString
	err := scan(&app.ID, &app.Status, &createdAt, &updatedAt,
		&app.Candidate.ID, &app.Candidate.FirstName, &app.Candidate.LastName, &app.Candidate.Email,
		&app.Job.ID, &app.Job.Title, &app.Job.Department,
		&adminID, &adminName, &adminEmail, &adminRole)
	if err != nil {
		return recruiting.Application{}, err
	}
	app.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid {
		app.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	if adminID.Valid {
		app.ShortlistedBy = &recruiting.User{
			ID:    adminID.String,
			Name:  adminName.String,
			Email: adminEmail.String,
			Role:  adminRole.String,
		}
	}
	return app, nil
}

func scanApplications(rows *sql.Rows) ([]recruiting.Application, error) {
	var apps []recruiting.Application
	for rows.Next() {
		app, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
