package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appStore "talentdesk/internal/adapters/storage/application"
	"talentdesk/internal/domain/event"
	"talentdesk/internal/domain/recruiting"
)

// ApplicationStore defines the application read/write interface needed by
// orchestrators.
type ApplicationStore interface {
	GetByID(ctx context.Context, id string) (recruiting.Application, error)
	List(ctx context.Context, filter appStore.ListFilter) ([]recruiting.Application, error)
	ListByIDs(ctx context.Context, ids []string) ([]recruiting.Application, error)
	Save(ctx context.Context, app recruiting.Application) error
	SetStatus(ctx context.Context, id, status, shortlistedBy string) error
	SaveCandidate(ctx context.Context, c recruiting.Candidate) error
	SaveJob(ctx context.Context, j recruiting.Job) error
}

// statusEvent maps an application status to the notification it triggers.
// Statuses without an entry change silently.
func statusEvent(status string) (event.Event, bool) {
	switch status {
	case recruiting.StatusReviewed:
		return event.ApplicationReviewed, true
	case recruiting.StatusShortlisted:
		return event.ApplicationShortlisted, true
	case recruiting.StatusOffer:
		return event.JobOffer, true
	}
	return 0, false
}

// --- Change Application Status ---

// ChangeApplicationStatusInput carries input for a status change.
type ChangeApplicationStatusInput struct {
	ApplicationID string
	NewStatus     string
	ActorID       string // admin performing the change
}

// ChangeApplicationStatusDeps holds dependencies for ChangeApplicationStatus.
type ChangeApplicationStatusDeps struct {
	Applications ApplicationStore
	Notify       NotifyEventDeps
}

// ExecuteChangeApplicationStatus moves an application to a new status and
// fires the matching candidate notification best-effort. The status change
// succeeds even when the notification fails.
// PRE: ApplicationID exists; NewStatus is a known status
// POST: Status persisted; shortlisting records the acting admin
func ExecuteChangeApplicationStatus(ctx context.Context, input ChangeApplicationStatusInput, deps ChangeApplicationStatusDeps) (recruiting.Application, error) {
	switch input.NewStatus {
	case recruiting.StatusReceived, recruiting.StatusReviewed, recruiting.StatusShortlisted,
		recruiting.StatusInterview, recruiting.StatusOffer, recruiting.StatusRejected:
	default:
		return recruiting.Application{}, fmt.Errorf("unknown application status %q", input.NewStatus)
	}
	if input.ActorID == "" {
		return recruiting.Application{}, errors.New("actor ID is required")
	}

	app, err := deps.Applications.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return recruiting.Application{}, err
	}

	shortlistedBy := ""
	if input.NewStatus == recruiting.StatusShortlisted {
		shortlistedBy = input.ActorID
	}
	if err := deps.Applications.SetStatus(ctx, input.ApplicationID, input.NewStatus, shortlistedBy); err != nil {
		return recruiting.Application{}, fmt.Errorf("persist status change: %w", err)
	}

	// Re-read so the returned application carries the hydrated shortlister.
	app, err = deps.Applications.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return recruiting.Application{}, err
	}

	slog.Info("application_event", "event", "status_changed", "application_id", app.ID, "status", input.NewStatus, "actor_id", input.ActorID)

	if ev, ok := statusEvent(input.NewStatus); ok {
		if _, err := ExecuteNotifyEvent(ctx, NotifyEventInput{
			Event:       ev,
			Application: app,
			Policy:      PolicySuppress,
		}, deps.Notify); err != nil {
			slog.Warn("application_event", "event", "status_notification_failed", "application_id", app.ID, "email_event", ev.String(), "error", err)
		}
	}

	return app, nil
}

// --- Receive Application ---

// ReceiveApplicationInput carries input for registering a new application.
type ReceiveApplicationInput struct {
	Candidate recruiting.Candidate
	JobID     string
}

// ReceiveApplicationDeps holds dependencies for ReceiveApplication.
type ReceiveApplicationDeps struct {
	Applications ApplicationStore
	Notify       NotifyEventDeps
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteReceiveApplication persists a new application for an existing job
// and sends the confirmation email best-effort.
// PRE: Candidate has an email; JobID references an existing job
// POST: Application persisted in received status
func ExecuteReceiveApplication(ctx context.Context, input ReceiveApplicationInput, deps ReceiveApplicationDeps) (recruiting.Application, error) {
	if input.Candidate.Email == "" {
		return recruiting.Application{}, errors.New("candidate email is required")
	}

	now := deps.Now()
	if input.Candidate.ID == "" {
		input.Candidate.ID = deps.GenerateID()
	}
	if err := deps.Applications.SaveCandidate(ctx, input.Candidate); err != nil {
		return recruiting.Application{}, fmt.Errorf("persist candidate: %w", err)
	}

	app := recruiting.Application{
		ID:        deps.GenerateID(),
		Status:    recruiting.StatusReceived,
		Candidate: input.Candidate,
		Job:       recruiting.Job{ID: input.JobID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := deps.Applications.Save(ctx, app); err != nil {
		return recruiting.Application{}, fmt.Errorf("persist application: %w", err)
	}

	// Hydrate the job association for the notification subject.
	app, err := deps.Applications.GetByID(ctx, app.ID)
	if err != nil {
		return recruiting.Application{}, err
	}

	slog.Info("application_event", "event", "application_received", "application_id", app.ID, "job_id", input.JobID)

	if _, err := ExecuteNotifyEvent(ctx, NotifyEventInput{
		Event:       event.ApplicationReceived,
		Application: app,
		Policy:      PolicySuppress,
	}, deps.Notify); err != nil {
		slog.Warn("application_event", "event", "received_notification_failed", "application_id", app.ID, "error", err)
	}

	return app, nil
}
