package email

import (
	"context"
	"time"
)

// Attachment is a named binary or text part attached to an outgoing email.
// ContentType matters for calendar parts: clients expect
// "text/calendar; method=PUBLISH" to surface the event inline.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To          []string // Recipient email addresses
	From        string   // Sender address (e.g. "TalentDesk <noreply@talentdesk.example.com>")
	Subject     string
	Body        string // Rendered body; HTML when IsHTML is set, plain text otherwise
	IsHTML      bool
	ReplyTo     string // Reply-to address
	Attachments []Attachment
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
