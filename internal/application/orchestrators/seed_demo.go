package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	interviewDomain "talentdesk/internal/domain/interview"
	"talentdesk/internal/domain/recruiting"
)

// Fixed IDs keep the demo seed idempotent across restarts.
const (
	demoAdminID       = "u-admin"
	demoInterviewerID = "u-interviewer"
	demoJobID         = "job-platform"
	demoSkeletonID    = "sk-technical"
)

type seedAccountStore interface {
	GetByID(ctx context.Context, id string) (recruiting.User, error)
	Save(ctx context.Context, u recruiting.User) error
}

type seedInterviewStore interface {
	GetSkeleton(ctx context.Context, id string) (interviewDomain.Skeleton, error)
	SaveSkeleton(ctx context.Context, sk interviewDomain.Skeleton) error
}

// SeedDemoDeps holds the stores needed for demo data seeding.
type SeedDemoDeps struct {
	Accounts     seedAccountStore
	Applications ApplicationStore
	Interviews   seedInterviewStore
	Now          func() time.Time
}

// ExecuteSeedDemo loads a small recruiting data set for development:
// two staff accounts, one open job, one interview skeleton, and two
// applications in different pipeline stages. Skips when already seeded.
func ExecuteSeedDemo(ctx context.Context, deps SeedDemoDeps) error {
	if _, err := deps.Accounts.GetByID(ctx, demoAdminID); err == nil {
		slog.Info("seed_event", "event", "demo_skip", "reason", "already_seeded")
		return nil
	}
	now := deps.Now()

	accounts := []recruiting.User{
		{ID: demoAdminID, Name: "Ada Admin", Email: "ada@talentdesk.example.com", Role: recruiting.RoleAdmin},
		{ID: demoInterviewerID, Name: "Sam Lee", Email: "sam@talentdesk.example.com", Role: recruiting.RoleInterviewer},
	}
	for _, u := range accounts {
		if err := deps.Accounts.Save(ctx, u); err != nil {
			return fmt.Errorf("seed account %s: %w", u.ID, err)
		}
	}

	if err := deps.Applications.SaveJob(ctx, recruiting.Job{
		ID:         demoJobID,
		Title:      "Platform Engineer",
		Department: "Engineering",
	}); err != nil {
		return fmt.Errorf("seed job: %w", err)
	}

	if err := deps.Interviews.SaveSkeleton(ctx, interviewDomain.Skeleton{
		ID:   demoSkeletonID,
		Name: "Technical Round",
		FocusAreas: []interviewDomain.FocusArea{
			{ID: "fa-design", Title: "System Design"},
			{ID: "fa-coding", Title: "Coding"},
			{ID: "fa-collab", Title: "Collaboration"},
		},
	}); err != nil {
		return fmt.Errorf("seed skeleton: %w", err)
	}

	candidates := []struct {
		candidate recruiting.Candidate
		appID     string
		status    string
	}{
		{recruiting.Candidate{ID: "c-jane", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}, "app-jane", recruiting.StatusShortlisted},
		{recruiting.Candidate{ID: "c-ken", FirstName: "Ken", LastName: "Ito", Email: "ken@example.com"}, "app-ken", recruiting.StatusReceived},
	}
	for _, c := range candidates {
		if err := deps.Applications.SaveCandidate(ctx, c.candidate); err != nil {
			return fmt.Errorf("seed candidate %s: %w", c.candidate.ID, err)
		}
		if err := deps.Applications.Save(ctx, recruiting.Application{
			ID:        c.appID,
			Candidate: recruiting.Candidate{ID: c.candidate.ID},
			Job:       recruiting.Job{ID: demoJobID},
			Status:    c.status,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("seed application %s: %w", c.appID, err)
		}
	}

	slog.Info("seed_event", "event", "demo_loaded",
		"accounts", len(accounts), "applications", len(candidates))
	return nil
}
