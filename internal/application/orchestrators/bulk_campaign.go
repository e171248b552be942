package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	appStore "talentdesk/internal/adapters/storage/application"
	campaignDomain "talentdesk/internal/domain/campaign"
	"talentdesk/internal/domain/recruiting"
)

// --- Run Bulk Campaign ---

// BulkCampaignInput carries input for a bulk email campaign.
type BulkCampaignInput struct {
	Selector      campaignDomain.Selector
	Subject       string
	Content       string
	IsHTML        bool
	SendTestFirst bool
	TestRecipient string // required when SendTestFirst is set
}

// BulkCampaignDeps holds dependencies for BulkCampaign.
type BulkCampaignDeps struct {
	Applications ApplicationStore
	Deliver      DeliverDeps
	Now          func() time.Time
}

// ExecuteBulkCampaign sends a personalized email to every selected
// application. Each recipient is an independent failure domain: a failed send
// is recorded in the result and the fan-out continues. The optional test send
// goes out first with a "[TEST] " subject prefix and counts toward the totals.
// PRE: Subject and Content are non-empty
// POST: Result totals satisfy TotalAttempted == SuccessCount + FailureCount
func ExecuteBulkCampaign(ctx context.Context, input BulkCampaignInput, deps BulkCampaignDeps) (campaignDomain.Result, error) {
	if input.Subject == "" {
		return campaignDomain.Result{}, errors.New("subject is required")
	}
	if input.Content == "" {
		return campaignDomain.Result{}, errors.New("content is required")
	}
	if input.SendTestFirst && input.TestRecipient == "" {
		return campaignDomain.Result{}, errors.New("test recipient is required for a test send")
	}

	apps, err := selectApplications(ctx, input.Selector, deps.Applications)
	if err != nil {
		return campaignDomain.Result{}, err
	}

	result := campaignDomain.Result{StartedAt: deps.Now()}

	if input.SendTestFirst {
		_, err := ExecuteSendCustom(ctx, SendCustomInput{
			Recipient: input.TestRecipient,
			Subject:   "[TEST] " + input.Subject,
			Body:      input.Content,
			IsHTML:    input.IsHTML,
			Policy:    PolicyPropagate,
		}, deps.Deliver)
		if err != nil {
			result.RecordFailure(campaignDomain.Failure{
				Recipient:    input.TestRecipient,
				Name:         "test recipient",
				ErrorMessage: err.Error(),
			})
		} else {
			result.RecordSuccess()
		}
	}

	for _, app := range apps {
		if reason := targetDefect(app); reason != "" {
			result.RecordFailure(campaignDomain.Failure{
				Recipient:     app.Candidate.Email,
				Name:          app.Candidate.FullName(),
				ApplicationID: app.ID,
				ErrorMessage:  reason,
			})
			continue
		}

		_, err := ExecuteSendCustom(ctx, SendCustomInput{
			Recipient:       app.Candidate.Email,
			Subject:         input.Subject,
			Body:            campaignDomain.Personalize(input.Content, app),
			IsHTML:          input.IsHTML,
			RelatedEntityID: app.ID,
			Policy:          PolicyPropagate,
		}, deps.Deliver)
		if err != nil {
			result.RecordFailure(campaignDomain.Failure{
				Recipient:     app.Candidate.Email,
				Name:          app.Candidate.FullName(),
				ApplicationID: app.ID,
				ErrorMessage:  err.Error(),
			})
			continue
		}
		result.RecordSuccess()
	}

	result.Finalize(deps.Now())
	slog.Info("campaign_event", "event", "campaign_finished", "status", result.Status, "attempted", result.TotalAttempted, "succeeded", result.SuccessCount, "failed", result.FailureCount)
	return result, nil
}

// --- Preview Campaign ---

// PreviewCampaignDeps holds dependencies for PreviewCampaign.
type PreviewCampaignDeps struct {
	Applications ApplicationStore
}

// CampaignRecipient is one resolved campaign target.
type CampaignRecipient struct {
	ApplicationID string
	Name          string
	Email         string
	JobTitle      string
	Status        string
}

// ExecutePreviewCampaign resolves a selector to its recipient list without
// sending anything. Targets that would be recorded as validation failures by
// the run are excluded from the preview.
// POST: No notification records are written
func ExecutePreviewCampaign(ctx context.Context, selector campaignDomain.Selector, deps PreviewCampaignDeps) ([]CampaignRecipient, error) {
	apps, err := selectApplications(ctx, selector, deps.Applications)
	if err != nil {
		return nil, err
	}

	var recipients []CampaignRecipient
	for _, app := range apps {
		if targetDefect(app) != "" {
			continue
		}
		recipients = append(recipients, CampaignRecipient{
			ApplicationID: app.ID,
			Name:          app.Candidate.FullName(),
			Email:         app.Candidate.Email,
			JobTitle:      app.Job.Title,
			Status:        app.Status,
		})
	}
	return recipients, nil
}

// selectApplications resolves a campaign selector against the application set.
func selectApplications(ctx context.Context, selector campaignDomain.Selector, store ApplicationStore) ([]recruiting.Application, error) {
	if selector.IsExplicit() {
		return store.ListByIDs(ctx, selector.ApplicationIDs)
	}
	return store.List(ctx, appStore.ListFilter{JobID: selector.JobID, Status: selector.Status})
}

// targetDefect reports why an application cannot receive campaign mail, or
// empty when it can.
func targetDefect(app recruiting.Application) string {
	switch {
	case app.Candidate.ID == "":
		return "application has no candidate"
	case app.Job.ID == "":
		return "application has no job"
	case app.Candidate.Email == "":
		return "candidate has no email address"
	}
	return ""
}
