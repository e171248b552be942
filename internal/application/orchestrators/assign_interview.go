package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"talentdesk/internal/domain/calendar"
	"talentdesk/internal/domain/event"
	interviewDomain "talentdesk/internal/domain/interview"
	"talentdesk/internal/domain/recruiting"
)

// InterviewStore defines the store interface needed by interview orchestrators.
type InterviewStore interface {
	Save(ctx context.Context, iv interviewDomain.Interview) error
	GetByID(ctx context.Context, id string) (interviewDomain.Interview, error)
	GetByIDAny(ctx context.Context, id string) (interviewDomain.Interview, error)
	ExistsForAssignment(ctx context.Context, applicationID, interviewerID, skeletonID string) (bool, error)
	SaveResponses(ctx context.Context, interviewID string, responses []interviewDomain.Response) error
	GetResponses(ctx context.Context, interviewID string) ([]interviewDomain.Response, error)
	GetSkeleton(ctx context.Context, id string) (interviewDomain.Skeleton, error)
}

// AccountStore defines the staff-account lookup needed by interview orchestrators.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (recruiting.User, error)
}

// AssignInterviewInput carries input for assigning an interview.
type AssignInterviewInput struct {
	ApplicationID   string
	InterviewerID   string
	SkeletonID      string
	AssignedByID    string // admin performing the assignment
	ScheduledAt     time.Time
	DurationMinutes int
	LocationType    string
	LocationAddress string
	Notes           string
}

// AssignInterviewDeps holds dependencies for AssignInterview.
type AssignInterviewDeps struct {
	Interviews   InterviewStore
	Applications ApplicationStore
	Accounts     AccountStore
	Notify       NotifyEventDeps
	Calendar     *calendar.Generator
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteAssignInterview assigns an interviewer to a shortlisted application.
// The assignment persists first; all notifications are best-effort and cannot
// fail it. When a schedule is set, one calendar artifact is generated and sent
// to interviewer, candidate and admin in that order, each send an independent
// failure domain.
// PRE: application is shortlisted; interviewer holds the interviewer
// capability; no interview exists for the same (application, interviewer,
// skeleton) triple
// POST: Interview persisted in assigned status with empty seeded responses
func ExecuteAssignInterview(ctx context.Context, input AssignInterviewInput, deps AssignInterviewDeps) (interviewDomain.Interview, error) {
	app, err := deps.Applications.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return interviewDomain.Interview{}, err
	}
	if app.Status != recruiting.StatusShortlisted {
		return interviewDomain.Interview{}, interviewDomain.ErrNotShortlisted
	}

	interviewer, err := deps.Accounts.GetByID(ctx, input.InterviewerID)
	if err != nil {
		return interviewDomain.Interview{}, fmt.Errorf("load interviewer: %w", err)
	}
	if !interviewer.IsInterviewer() {
		return interviewDomain.Interview{}, interviewDomain.ErrNoInterviewerRole
	}

	admin, err := deps.Accounts.GetByID(ctx, input.AssignedByID)
	if err != nil {
		return interviewDomain.Interview{}, fmt.Errorf("load assigning admin: %w", err)
	}

	exists, err := deps.Interviews.ExistsForAssignment(ctx, input.ApplicationID, input.InterviewerID, input.SkeletonID)
	if err != nil {
		return interviewDomain.Interview{}, err
	}
	if exists {
		return interviewDomain.Interview{}, interviewDomain.ErrDuplicateAssignment
	}

	sk, err := deps.Interviews.GetSkeleton(ctx, input.SkeletonID)
	if err != nil {
		return interviewDomain.Interview{}, fmt.Errorf("load skeleton: %w", err)
	}

	now := deps.Now()
	iv := interviewDomain.Interview{
		ID:              deps.GenerateID(),
		ApplicationID:   input.ApplicationID,
		InterviewerID:   input.InterviewerID,
		SkeletonID:      input.SkeletonID,
		AssignedByID:    input.AssignedByID,
		Status:          interviewDomain.StatusAssigned,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		LocationType:    input.LocationType,
		LocationAddress: input.LocationAddress,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := deps.Interviews.Save(ctx, iv); err != nil {
		return interviewDomain.Interview{}, fmt.Errorf("persist interview: %w", err)
	}
	if err := deps.Interviews.SaveResponses(ctx, iv.ID, interviewDomain.SeedResponses(iv.ID, sk)); err != nil {
		return interviewDomain.Interview{}, fmt.Errorf("seed responses: %w", err)
	}

	slog.Info("interview_event", "event", "interview_assigned", "interview_id", iv.ID, "application_id", app.ID, "interviewer_id", interviewer.ID, "assigned_by", admin.ID)

	// The assignment is committed; everything below is best-effort.
	loc := locationLabel(iv.LocationType, iv.LocationAddress)
	notifyAssignment(ctx, iv, app, interviewer, loc, deps.Notify)

	if iv.IsScheduled() {
		sendCalendarInvites(ctx, iv, app, interviewer, admin, sk, deps)
	}

	return iv, nil
}

// notifyAssignment sends the two assignment emails. Failures are recorded on
// their notification records and logged, never propagated.
func notifyAssignment(ctx context.Context, iv interviewDomain.Interview, app recruiting.Application, interviewer recruiting.User, loc string, deps NotifyEventDeps) {
	base := NotifyEventInput{
		Application: app,
		Interviewer: &interviewer,
		ScheduledAt: iv.ScheduledAt,
		Location:    loc,
		Policy:      PolicySuppress,
	}

	for _, ev := range []event.Event{event.InterviewAssignedToInterviewer, event.InterviewAssignedToCandidate} {
		input := base
		input.Event = ev
		if _, err := ExecuteNotifyEvent(ctx, input, deps); err != nil {
			slog.Warn("interview_event", "event", "assignment_notification_failed", "interview_id", iv.ID, "email_event", ev.String(), "error", err)
		}
	}
}

// sendCalendarInvites generates the ICS artifact once and sends it to the
// interviewer, the candidate and the assigning admin, in that order.
func sendCalendarInvites(ctx context.Context, iv interviewDomain.Interview, app recruiting.Application, interviewer, admin recruiting.User, sk interviewDomain.Skeleton, deps AssignInterviewDeps) {
	ics := deps.Calendar.Generate(calendar.Details{
		InterviewID:      iv.ID,
		CandidateName:    app.Candidate.FullName(),
		CandidateEmail:   app.Candidate.Email,
		JobTitle:         app.Job.Title,
		SkeletonName:     sk.Name,
		InterviewerName:  interviewer.Name,
		InterviewerEmail: interviewer.Email,
		AdminName:        admin.Name,
		AdminEmail:       admin.Email,
		ScheduledAt:      iv.ScheduledAt,
		DurationMinutes:  iv.DurationMinutes,
		LocationType:     iv.LocationType,
		LocationAddress:  iv.LocationAddress,
		Notes:            iv.Notes,
	})

	subject := fmt.Sprintf("Calendar invite: %s interview", app.Job.Title)
	body := fmt.Sprintf("The calendar invite for the %s interview with %s on %s is attached.",
		app.Job.Title, app.Candidate.FullName(), iv.ScheduledAt.Format(scheduleLayout))

	recipients := []string{interviewer.Email, app.Candidate.Email, admin.Email}
	for _, to := range recipients {
		_, err := ExecuteSendWithAttachment(ctx, SendWithAttachmentInput{
			Recipient:       to,
			Subject:         subject,
			Body:            body,
			AttachmentName:  "interview.ics",
			AttachmentBytes: []byte(ics),
			AttachmentType:  calendar.MediaType,
			RelatedEntityID: app.ID,
			Policy:          PolicySuppress,
		}, deps.Notify.Deliver)
		if err != nil {
			slog.Warn("interview_event", "event", "calendar_send_failed", "interview_id", iv.ID, "recipient", to, "error", err)
		}
	}
}

// locationLabel returns the human-readable location used in email bodies.
func locationLabel(locationType, address string) string {
	switch {
	case locationType == interviewDomain.LocationOffice && address != "":
		return address
	case locationType == interviewDomain.LocationOnline:
		return "Online Meeting"
	default:
		return "To be confirmed"
	}
}
