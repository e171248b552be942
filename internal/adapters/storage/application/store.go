package application

import (
	"context"

	"talentdesk/internal/domain/recruiting"
)

// Store reads applications with their candidate, job and shortlisting-admin
// associations hydrated, and carries the few writes the notification core
// performs (status changes and seed data).
type Store interface {
	GetByID(ctx context.Context, id string) (recruiting.Application, error)
	List(ctx context.Context, filter ListFilter) ([]recruiting.Application, error)
	ListByIDs(ctx context.Context, ids []string) ([]recruiting.Application, error)
	Save(ctx context.Context, app recruiting.Application) error
	SetStatus(ctx context.Context, id, status, shortlistedBy string) error
	SaveCandidate(ctx context.Context, c recruiting.Candidate) error
	SaveJob(ctx context.Context, j recruiting.Job) error
}

// ListFilter selects applications by job and/or status. Empty fields match
// everything.
type ListFilter struct {
	JobID  string
	Status string
}
