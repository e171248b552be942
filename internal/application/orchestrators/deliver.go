package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "talentdesk/internal/adapters/email"
	"talentdesk/internal/adapters/template"
	notifDomain "talentdesk/internal/domain/notification"
)

// FailurePolicy controls whether a transport failure surfaces to the caller.
// The failed record is persisted either way; only the returned error differs.
type FailurePolicy int

const (
	// PolicyPropagate returns the transport error to the caller.
	PolicyPropagate FailurePolicy = iota
	// PolicySuppress swallows the transport error after recording it.
	// Used for best-effort notifications attached to business operations.
	PolicySuppress
)

// NotificationStore defines the store interface needed by delivery orchestrators.
type NotificationStore interface {
	Create(ctx context.Context, r notifDomain.Record) error
	UpdateDelivery(ctx context.Context, r notifDomain.Record) error
	GetByID(ctx context.Context, id string) (notifDomain.Record, error)
	ListByStatus(ctx context.Context, status string) ([]notifDomain.Record, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// DeliverDeps holds dependencies shared by all delivery operations.
type DeliverDeps struct {
	Records     NotificationStore
	Sender      emailAdapter.Sender
	Renderer    template.Renderer
	FromAddress string
	ReplyTo     string
	Now         func() time.Time
	GenerateID  func() string
}

// --- Send Templated ---

// SendTemplatedInput carries input for a template-rendered delivery.
type SendTemplatedInput struct {
	Recipient       string
	Subject         string
	TemplateName    string
	Vars            map[string]string
	RelatedEntityID string
	Policy          FailurePolicy
}

// ExecuteSendTemplated renders a template and delivers the result, writing the
// notification record before any transport call is made.
// PRE: Recipient, Subject and TemplateName are non-empty; template exists
// POST: A record exists in sent or failed status holding the rendered body;
// no record is written when rendering fails
func ExecuteSendTemplated(ctx context.Context, input SendTemplatedInput, deps DeliverDeps) (notifDomain.Record, error) {
	body, isHTML, err := deps.Renderer.Render(input.TemplateName, input.Vars)
	if err != nil {
		return notifDomain.Record{}, fmt.Errorf("render %s: %w", input.TemplateName, err)
	}

	rec := notifDomain.Record{
		ID:               deps.GenerateID(),
		RecipientAddress: input.Recipient,
		Subject:          input.Subject,
		Body:             body,
		TemplateName:     input.TemplateName,
		IsHTML:           isHTML,
		Status:           notifDomain.StatusPending,
		RelatedEntityID:  input.RelatedEntityID,
		CreatedAt:        deps.Now(),
		UpdatedAt:        deps.Now(),
	}
	return createAndDeliver(ctx, rec, nil, input.Policy, deps)
}

// --- Send Custom ---

// SendCustomInput carries input for an ad-hoc delivery with caller-supplied content.
type SendCustomInput struct {
	Recipient       string
	Subject         string
	Body            string
	IsHTML          bool
	RelatedEntityID string
	Policy          FailurePolicy
}

// ExecuteSendCustom delivers caller-supplied content under the reserved
// custom-email template name.
// PRE: Recipient and Subject are non-empty
// POST: A record exists in sent or failed status holding the supplied body
func ExecuteSendCustom(ctx context.Context, input SendCustomInput, deps DeliverDeps) (notifDomain.Record, error) {
	rec := notifDomain.Record{
		ID:               deps.GenerateID(),
		RecipientAddress: input.Recipient,
		Subject:          input.Subject,
		Body:             input.Body,
		TemplateName:     notifDomain.TemplateCustomEmail,
		IsHTML:           input.IsHTML,
		Status:           notifDomain.StatusPending,
		RelatedEntityID:  input.RelatedEntityID,
		CreatedAt:        deps.Now(),
		UpdatedAt:        deps.Now(),
	}
	return createAndDeliver(ctx, rec, nil, input.Policy, deps)
}

// --- Send With Attachment ---

// SendWithAttachmentInput carries input for a delivery with an attached part.
// The body is already rendered; the attachment bytes are transport-only and
// never persisted on the record.
type SendWithAttachmentInput struct {
	Recipient       string
	Subject         string
	Body            string
	IsHTML          bool
	TemplateName    string // recorded name; custom-email when empty
	AttachmentName  string
	AttachmentBytes []byte
	AttachmentType  string
	RelatedEntityID string
	Policy          FailurePolicy
}

// ExecuteSendWithAttachment delivers pre-rendered content with one named
// attachment.
// PRE: Recipient and Subject are non-empty; AttachmentName and bytes are set
// POST: A record exists in sent or failed status covering the body only
func ExecuteSendWithAttachment(ctx context.Context, input SendWithAttachmentInput, deps DeliverDeps) (notifDomain.Record, error) {
	templateName := input.TemplateName
	if templateName == "" {
		templateName = notifDomain.TemplateCustomEmail
	}

	rec := notifDomain.Record{
		ID:               deps.GenerateID(),
		RecipientAddress: input.Recipient,
		Subject:          input.Subject,
		Body:             input.Body,
		TemplateName:     templateName,
		IsHTML:           input.IsHTML,
		Status:           notifDomain.StatusPending,
		RelatedEntityID:  input.RelatedEntityID,
		CreatedAt:        deps.Now(),
		UpdatedAt:        deps.Now(),
	}
	attachments := []emailAdapter.Attachment{{
		Filename:    input.AttachmentName,
		Content:     input.AttachmentBytes,
		ContentType: input.AttachmentType,
	}}
	return createAndDeliver(ctx, rec, attachments, input.Policy, deps)
}

// --- Resend ---

// ResendInput carries input for retrying an existing record.
type ResendInput struct {
	RecordID string
	Policy   FailurePolicy
}

// ExecuteResend re-attempts delivery of an existing record using its stored
// rendered body. The retry bookkeeping is persisted before the transport call.
// PRE: RecordID exists
// POST: RetryCount incremented, LastRetryAt set; record in sent or failed status
func ExecuteResend(ctx context.Context, input ResendInput, deps DeliverDeps) (notifDomain.Record, error) {
	rec, err := deps.Records.GetByID(ctx, input.RecordID)
	if err != nil {
		return notifDomain.Record{}, err
	}

	rec.MarkResendAttempt(deps.Now())
	if err := deps.Records.UpdateDelivery(ctx, rec); err != nil {
		return notifDomain.Record{}, fmt.Errorf("persist resend attempt: %w", err)
	}

	return deliver(ctx, rec, nil, input.Policy, deps)
}

// createAndDeliver validates and persists a fresh pending record, then runs
// the transport attempt.
func createAndDeliver(ctx context.Context, rec notifDomain.Record, attachments []emailAdapter.Attachment, policy FailurePolicy, deps DeliverDeps) (notifDomain.Record, error) {
	if err := rec.Validate(); err != nil {
		return notifDomain.Record{}, err
	}
	if err := deps.Records.Create(ctx, rec); err != nil {
		return notifDomain.Record{}, fmt.Errorf("persist notification record: %w", err)
	}
	return deliver(ctx, rec, attachments, policy, deps)
}

// deliver performs the transport attempt for an already-persisted pending
// record and persists the outcome.
func deliver(ctx context.Context, rec notifDomain.Record, attachments []emailAdapter.Attachment, policy FailurePolicy, deps DeliverDeps) (notifDomain.Record, error) {
	req := emailAdapter.SendRequest{
		To:          []string{rec.RecipientAddress},
		From:        deps.FromAddress,
		Subject:     rec.Subject,
		Body:        rec.Body,
		IsHTML:      rec.IsHTML,
		ReplyTo:     deps.ReplyTo,
		Attachments: attachments,
	}

	_, sendErr := deps.Sender.Send(ctx, req)
	if sendErr != nil {
		rec.MarkFailed(sendErr, deps.Now())
		if err := deps.Records.UpdateDelivery(ctx, rec); err != nil {
			slog.Error("notification_event", "event", "failure_persist_failed", "record_id", rec.ID, "error", err)
		}
		slog.Warn("notification_event", "event", "delivery_failed", "record_id", rec.ID, "recipient", rec.RecipientAddress, "error", sendErr)
		if policy == PolicySuppress {
			return rec, nil
		}
		return rec, fmt.Errorf("send notification %s: %w", rec.ID, sendErr)
	}

	rec.MarkSent(deps.Now())
	if err := deps.Records.UpdateDelivery(ctx, rec); err != nil {
		return rec, fmt.Errorf("persist delivery outcome: %w", err)
	}

	slog.Info("notification_event", "event", "delivered", "record_id", rec.ID, "recipient", rec.RecipientAddress, "template", rec.TemplateName, "retry_count", rec.RetryCount)
	return rec, nil
}
