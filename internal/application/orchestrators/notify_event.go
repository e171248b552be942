package orchestrators

import (
	"context"
	"time"

	"talentdesk/internal/domain/event"
	notifDomain "talentdesk/internal/domain/notification"
	"talentdesk/internal/domain/recruiting"
)

// scheduleLayout is the human-readable timestamp used in email bodies.
const scheduleLayout = "2006-01-02 15:04"

// NotifyEventInput carries input for an event-driven notification.
type NotifyEventInput struct {
	Event       event.Event
	Application recruiting.Application
	Interviewer *recruiting.User // required for interviewer-scoped events
	ScheduledAt time.Time        // set for interview events
	Location    string           // set for interview events
	Policy      FailurePolicy
}

// NotifyEventDeps holds dependencies for event notifications.
type NotifyEventDeps struct {
	Deliver     DeliverDeps
	CompanyName string
}

// ExecuteNotifyEvent resolves an event to its recipient and template and
// delivers the notification through the delivery engine.
// PRE: Application is hydrated with candidate and job; Interviewer set for
// interviewer-scoped events
// POST: A notification record exists for the resolved recipient
func ExecuteNotifyEvent(ctx context.Context, input NotifyEventInput, deps NotifyEventDeps) (notifDomain.Record, error) {
	route, err := event.Resolve(input.Event)
	if err != nil {
		return notifDomain.Record{}, err
	}

	target, err := event.ResolveTarget(route, event.Context{
		Application: input.Application,
		Interviewer: input.Interviewer,
	})
	if err != nil {
		return notifDomain.Record{}, err
	}

	vars := map[string]string{
		"candidate_name": input.Application.Candidate.FullName(),
		"job_title":      input.Application.Job.Title,
		"application_id": input.Application.ID,
		"company_name":   deps.CompanyName,
	}
	if input.Interviewer != nil {
		vars["interviewer_name"] = input.Interviewer.Name
	}
	if !input.ScheduledAt.IsZero() {
		vars["scheduled_at"] = input.ScheduledAt.Format(scheduleLayout)
	}
	if input.Location != "" {
		vars["location"] = input.Location
	}

	return ExecuteSendTemplated(ctx, SendTemplatedInput{
		Recipient:       target.Address,
		Subject:         route.Subject(input.Application.Job.Title),
		TemplateName:    route.TemplateName,
		Vars:            vars,
		RelatedEntityID: target.RelatedEntityID,
		Policy:          input.Policy,
	}, deps.Deliver)
}
