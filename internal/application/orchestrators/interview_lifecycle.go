package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"talentdesk/internal/domain/event"
	interviewDomain "talentdesk/internal/domain/interview"
)

// --- Start Interview ---

// StartInterviewInput carries input for starting an interview.
type StartInterviewInput struct {
	InterviewID   string
	InterviewerID string // must be the assigned interviewer
}

// LifecycleDeps holds dependencies for the notification-free transitions.
type LifecycleDeps struct {
	Interviews InterviewStore
	Now        func() time.Time
}

// ExecuteStartInterview moves an assigned interview to in_progress.
// PRE: interview is assigned; caller is the assigned interviewer
// POST: Status is in_progress; no notification side effect
func ExecuteStartInterview(ctx context.Context, input StartInterviewInput, deps LifecycleDeps) (interviewDomain.Interview, error) {
	iv, err := deps.Interviews.GetByID(ctx, input.InterviewID)
	if err != nil {
		return interviewDomain.Interview{}, err
	}
	if err := iv.Start(input.InterviewerID, deps.Now()); err != nil {
		return interviewDomain.Interview{}, err
	}
	if err := deps.Interviews.Save(ctx, iv); err != nil {
		return interviewDomain.Interview{}, fmt.Errorf("persist interview: %w", err)
	}

	slog.Info("interview_event", "event", "interview_started", "interview_id", iv.ID, "interviewer_id", input.InterviewerID)
	return iv, nil
}

// --- Submit Interview ---

// SubmitInterviewInput carries input for submitting interview feedback.
type SubmitInterviewInput struct {
	InterviewID   string
	InterviewerID string // must be the assigned interviewer
	Responses     []interviewDomain.Response
}

// ExecuteSubmitInterview completes an in-progress interview, overwriting its
// responses.
// PRE: interview is in_progress; caller is the assigned interviewer
// POST: Status is completed with CompletedAt set; responses replaced; no
// notification side effect
func ExecuteSubmitInterview(ctx context.Context, input SubmitInterviewInput, deps LifecycleDeps) (interviewDomain.Interview, error) {
	iv, err := deps.Interviews.GetByID(ctx, input.InterviewID)
	if err != nil {
		return interviewDomain.Interview{}, err
	}
	if err := iv.Submit(input.InterviewerID, deps.Now()); err != nil {
		return interviewDomain.Interview{}, err
	}

	for i := range input.Responses {
		input.Responses[i].InterviewID = iv.ID
	}
	if err := deps.Interviews.SaveResponses(ctx, iv.ID, input.Responses); err != nil {
		return interviewDomain.Interview{}, fmt.Errorf("persist responses: %w", err)
	}
	if err := deps.Interviews.Save(ctx, iv); err != nil {
		return interviewDomain.Interview{}, fmt.Errorf("persist interview: %w", err)
	}

	slog.Info("interview_event", "event", "interview_submitted", "interview_id", iv.ID, "interviewer_id", input.InterviewerID, "response_count", len(input.Responses))
	return iv, nil
}

// --- Cancel Interview ---

// CancelInterviewInput carries input for cancelling an interview.
type CancelInterviewInput struct {
	InterviewID string
	ActorID     string // admin performing the cancellation
}

// CancelInterviewDeps holds dependencies for CancelInterview.
type CancelInterviewDeps struct {
	Interviews   InterviewStore
	Applications ApplicationStore
	Accounts     AccountStore
	Notify       NotifyEventDeps
	Now          func() time.Time
}

// ExecuteCancelInterview cancels an interview that has not completed. The
// cancelled state persists before any email is attempted, so the interview is
// gone from normal lookup even if both cancellation emails fail. The two
// notifications (interviewer first, then candidate) are best-effort.
// PRE: interview exists and is not completed
// POST: Status is cancelled; row retained for audit via GetByIDAny
func ExecuteCancelInterview(ctx context.Context, input CancelInterviewInput, deps CancelInterviewDeps) error {
	iv, err := deps.Interviews.GetByID(ctx, input.InterviewID)
	if err != nil {
		return err
	}
	if err := iv.Cancel(deps.Now()); err != nil {
		return err
	}
	if err := deps.Interviews.Save(ctx, iv); err != nil {
		return fmt.Errorf("persist cancellation: %w", err)
	}

	slog.Info("interview_event", "event", "interview_cancelled", "interview_id", iv.ID, "actor_id", input.ActorID)

	// The cancellation is committed; notification failures stay best-effort.
	app, err := deps.Applications.GetByID(ctx, iv.ApplicationID)
	if err != nil {
		slog.Warn("interview_event", "event", "cancellation_notification_skipped", "interview_id", iv.ID, "error", err)
		return nil
	}
	interviewer, err := deps.Accounts.GetByID(ctx, iv.InterviewerID)
	if err != nil {
		slog.Warn("interview_event", "event", "cancellation_notification_skipped", "interview_id", iv.ID, "error", err)
		return nil
	}

	base := NotifyEventInput{
		Application: app,
		Interviewer: &interviewer,
		ScheduledAt: iv.ScheduledAt,
		Location:    locationLabel(iv.LocationType, iv.LocationAddress),
		Policy:      PolicySuppress,
	}
	for _, ev := range []event.Event{event.InterviewCancelledToInterviewer, event.InterviewCancelledToCandidate} {
		in := base
		in.Event = ev
		if _, err := ExecuteNotifyEvent(ctx, in, deps.Notify); err != nil {
			slog.Warn("interview_event", "event", "cancellation_notification_failed", "interview_id", iv.ID, "email_event", ev.String(), "error", err)
		}
	}

	return nil
}
