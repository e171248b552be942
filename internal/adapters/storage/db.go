package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS candidate (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS job (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS application (
		id TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL,
		job_id TEXT NOT NULL,
		status TEXT NOT NULL,
		shortlisted_by TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (candidate_id) REFERENCES candidate(id),
		FOREIGN KEY (job_id) REFERENCES job(id)
	);

	CREATE TABLE IF NOT EXISTS skeleton (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS skeleton_focus_area (
		id TEXT PRIMARY KEY,
		skeleton_id TEXT NOT NULL,
		title TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (skeleton_id) REFERENCES skeleton(id)
	);

	CREATE TABLE IF NOT EXISTS interview (
		id TEXT PRIMARY KEY,
		application_id TEXT NOT NULL,
		interviewer_id TEXT NOT NULL,
		skeleton_id TEXT NOT NULL,
		assigned_by TEXT NOT NULL,
		status TEXT NOT NULL,
		scheduled_at TEXT,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		location_type TEXT NOT NULL DEFAULT '',
		location_address TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		completed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (application_id) REFERENCES application(id),
		FOREIGN KEY (skeleton_id) REFERENCES skeleton(id)
	);

	CREATE TABLE IF NOT EXISTS interview_response (
		interview_id TEXT NOT NULL,
		focus_area_title TEXT NOT NULL,
		feedback TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (interview_id) REFERENCES interview(id)
	);

	CREATE TABLE IF NOT EXISTS notification_record (
		id TEXT PRIMARY KEY,
		recipient_address TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		template_name TEXT NOT NULL,
		is_html INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		error_message TEXT,
		retry_count INTEGER NOT NULL DEFAULT 0,
		last_retry_at TEXT,
		related_entity_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_notification_record_status
		ON notification_record(status);
	CREATE INDEX IF NOT EXISTS idx_interview_assignment
		ON interview(application_id, interviewer_id, skeleton_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
