package event

import (
	"errors"
	"fmt"

	"talentdesk/internal/domain/recruiting"
)

// Event is the closed set of business triggers that produce an email.
// Adding a value here without extending Resolve is caught by
// TestResolve_AllEventsMapped.
type Event int

const (
	ApplicationReceived Event = iota
	ApplicationReviewed
	ApplicationShortlisted
	InterviewAssignedToInterviewer
	InterviewAssignedToCandidate
	InterviewCancelledToCandidate
	InterviewCancelledToInterviewer
	JobOffer
	eventCount // sentinel, keep last
)

// String returns the event's wire name.
func (e Event) String() string {
	switch e {
	case ApplicationReceived:
		return "application_received"
	case ApplicationReviewed:
		return "application_reviewed"
	case ApplicationShortlisted:
		return "application_shortlisted"
	case InterviewAssignedToInterviewer:
		return "interview_assigned_to_interviewer"
	case InterviewAssignedToCandidate:
		return "interview_assigned_to_candidate"
	case InterviewCancelledToCandidate:
		return "interview_cancelled_to_candidate"
	case InterviewCancelledToInterviewer:
		return "interview_cancelled_to_interviewer"
	case JobOffer:
		return "job_offer"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// RecipientType classifies who receives the notification.
type RecipientType string

const (
	RecipientCandidate   RecipientType = "candidate"
	RecipientInterviewer RecipientType = "interviewer"
	RecipientAdmin       RecipientType = "admin"
)

// Domain errors.
var (
	// ErrUnsupportedEvent indicates a programming error: an event value with
	// no configured route. Unreachable for the declared constants.
	ErrUnsupportedEvent = errors.New("no route configured for event")
	// ErrInvalidContext indicates an interviewer-scoped event resolved
	// without interview context.
	ErrInvalidContext = errors.New("event requires interview context")
)

// Route is the static, process-wide mapping for one event: who gets the mail,
// the subject format (one %s slot for the job title) and the template used to
// render the body.
type Route struct {
	Recipient     RecipientType
	SubjectFormat string
	TemplateName  string
}

// Subject fills the job title into the route's subject format.
func (r Route) Subject(jobTitle string) string {
	return fmt.Sprintf(r.SubjectFormat, jobTitle)
}

// Resolve maps an event to its route. The switch is exhaustive over the
// declared constants; the error branch only fires for out-of-range values.
func Resolve(e Event) (Route, error) {
	switch e {
	case ApplicationReceived:
		return Route{RecipientCandidate, "We received your application for %s", "application-received"}, nil
	case ApplicationReviewed:
		return Route{RecipientCandidate, "Your application for %s has been reviewed", "application-reviewed"}, nil
	case ApplicationShortlisted:
		return Route{RecipientCandidate, "You have been shortlisted for %s", "application-shortlisted"}, nil
	case InterviewAssignedToInterviewer:
		return Route{RecipientInterviewer, "New interview assignment: %s", "interview-assigned-interviewer"}, nil
	case InterviewAssignedToCandidate:
		return Route{RecipientCandidate, "Interview scheduled for your %s application", "interview-assigned-candidate"}, nil
	case InterviewCancelledToCandidate:
		return Route{RecipientCandidate, "Interview cancelled: %s", "interview-cancelled-candidate"}, nil
	case InterviewCancelledToInterviewer:
		return Route{RecipientInterviewer, "Interview cancelled: %s", "interview-cancelled-interviewer"}, nil
	case JobOffer:
		return Route{RecipientCandidate, "Job offer: %s", "job-offer"}, nil
	}
	return Route{}, fmt.Errorf("%w: %s", ErrUnsupportedEvent, e)
}

// Context carries the business entities an event resolves its recipient from.
// Interviewer must be set for interviewer-scoped events.
type Context struct {
	Application recruiting.Application
	Interviewer *recruiting.User
}

// Target is the literal delivery destination for one event occurrence.
type Target struct {
	Address         string
	RelatedEntityID string // application id, for audit/filtering
}

// ResolveTarget determines the concrete recipient address for a route.
// PRE: ctx.Application is hydrated with candidate and job
// POST: Returns the address and related-entity reference, or ErrInvalidContext
func ResolveTarget(route Route, ctx Context) (Target, error) {
	switch route.Recipient {
	case RecipientInterviewer:
		if ctx.Interviewer == nil {
			return Target{}, fmt.Errorf("%w: interviewer recipient", ErrInvalidContext)
		}
		return Target{Address: ctx.Interviewer.Email, RelatedEntityID: ctx.Application.ID}, nil
	case RecipientAdmin:
		return Target{Address: adminAddress(ctx.Application), RelatedEntityID: ctx.Application.ID}, nil
	default:
		return Target{Address: ctx.Application.Candidate.Email, RelatedEntityID: ctx.Application.ID}, nil
	}
}

// adminAddress returns the address for admin-scoped events: the admin who
// shortlisted the application, falling back to the candidate's own address
// when no shortlisting admin exists. The fallback conflates two different
// people; it reproduces long-standing behaviour and is kept here so a future
// correction is a one-line change.
func adminAddress(app recruiting.Application) string {
	if app.ShortlistedBy != nil && app.ShortlistedBy.Email != "" {
		return app.ShortlistedBy.Email
	}
	return app.Candidate.Email
}
