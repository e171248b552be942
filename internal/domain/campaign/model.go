package campaign

import (
	"strings"
	"time"

	"talentdesk/internal/domain/recruiting"
)

// Aggregate status constants for a campaign run.
const (
	StatusSuccess        = "success"
	StatusPartialSuccess = "partial_success"
	StatusFailed         = "failed"
)

// Selector chooses the target applications for a campaign: either an explicit
// id list, or a job/status filter. Both filter fields empty selects every
// application.
type Selector struct {
	ApplicationIDs []string
	JobID          string
	Status         string
}

// IsExplicit returns true when the selector names applications directly.
func (s Selector) IsExplicit() bool {
	return len(s.ApplicationIDs) > 0
}

// Failure is one per-recipient delivery or validation failure.
type Failure struct {
	Recipient     string
	Name          string
	ApplicationID string
	ErrorMessage  string
}

// Result aggregates one campaign run. It is computed per request and never
// persisted; the underlying notification records are the durable trail.
type Result struct {
	TotalAttempted int
	SuccessCount   int
	FailureCount   int
	Failures       []Failure
	Status         string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// RecordSuccess counts one delivered recipient.
func (r *Result) RecordSuccess() {
	r.SuccessCount++
}

// RecordFailure counts one failed recipient and keeps its detail.
func (r *Result) RecordFailure(f Failure) {
	r.FailureCount++
	r.Failures = append(r.Failures, f)
}

// Finalize derives the totals and aggregate status.
// POST: TotalAttempted == SuccessCount + FailureCount; Status is success only
// when every attempt succeeded and at least one was made
func (r *Result) Finalize(now time.Time) {
	r.TotalAttempted = r.SuccessCount + r.FailureCount
	r.FinishedAt = now
	switch {
	case r.FailureCount == 0 && r.SuccessCount > 0:
		r.Status = StatusSuccess
	case r.SuccessCount == 0:
		r.Status = StatusFailed
	default:
		r.Status = StatusPartialSuccess
	}
}

// Personalize substitutes the per-recipient tokens into campaign content.
// Substitution happens per recipient, never once for the whole batch.
func Personalize(content string, app recruiting.Application) string {
	replacer := strings.NewReplacer(
		"{{candidateName}}", app.Candidate.FullName(),
		"{{firstName}}", app.Candidate.FirstName,
		"{{lastName}}", app.Candidate.LastName,
		"{{jobTitle}}", app.Job.Title,
		"{{jobDepartment}}", app.Job.Department,
		"{{applicationStatus}}", app.Status,
	)
	return replacer.Replace(content)
}
