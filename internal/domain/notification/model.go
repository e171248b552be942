package notification

import (
	"errors"
	"time"
)

// Status constants for the delivery record lifecycle.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// TemplateCustomEmail is the reserved template name recorded for ad-hoc
// content that was not produced by the template renderer.
const TemplateCustomEmail = "custom-email"

// Domain errors.
var (
	ErrEmptyRecipient = errors.New("recipient address is required")
	ErrEmptySubject   = errors.New("subject is required")
	ErrEmptyTemplate  = errors.New("template name is required")
	ErrNotFound       = errors.New("notification record not found")
)

// Record is one delivery attempt written before any transport call is made.
// RecipientAddress, Subject and Body are immutable once created; only the
// status fields and retry bookkeeping change afterwards.
type Record struct {
	ID               string
	RecipientAddress string
	Subject          string
	Body             string // fully rendered content, never a template reference
	TemplateName     string
	IsHTML           bool
	Status           string
	ErrorMessage     string // set iff Status == failed
	RetryCount       int
	LastRetryAt      time.Time // zero until the first resend
	RelatedEntityID  string    // weak reference to the application that caused the send
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks that the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if r.RecipientAddress == "" {
		return ErrEmptyRecipient
	}
	if r.Subject == "" {
		return ErrEmptySubject
	}
	if r.TemplateName == "" {
		return ErrEmptyTemplate
	}
	if r.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// IsPending returns true while a transport attempt is in flight.
// INVARIANT: Status field is not mutated
func (r *Record) IsPending() bool {
	return r.Status == StatusPending
}

// IsFailed returns true if the last attempt failed.
// INVARIANT: Status field is not mutated
func (r *Record) IsFailed() bool {
	return r.Status == StatusFailed
}

// MarkSent records a successful transport attempt.
// PRE: Record is in pending status
// POST: Status is sent, ErrorMessage cleared, UpdatedAt set
func (r *Record) MarkSent(now time.Time) {
	r.Status = StatusSent
	r.ErrorMessage = ""
	r.UpdatedAt = now
}

// MarkFailed records a failed transport attempt.
// PRE: Record is in pending status; err is the transport error
// POST: Status is failed, ErrorMessage holds the transport error text
func (r *Record) MarkFailed(err error, now time.Time) {
	r.Status = StatusFailed
	r.ErrorMessage = err.Error()
	r.UpdatedAt = now
}

// MarkResendAttempt prepares the record for another transport attempt using
// its already-rendered subject and body.
// PRE: Record exists (any terminal status)
// POST: RetryCount incremented, LastRetryAt set, status back to pending
func (r *Record) MarkResendAttempt(now time.Time) {
	r.RetryCount++
	r.LastRetryAt = now
	r.Status = StatusPending
	r.ErrorMessage = ""
	r.UpdatedAt = now
}
