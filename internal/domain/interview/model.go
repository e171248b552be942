package interview

import (
	"errors"
	"time"
)

// Status constants for the interview lifecycle.
const (
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Location type constants.
const (
	LocationOffice = "office"
	LocationOnline = "online"
)

// DefaultDurationMinutes applies when an interview is scheduled without an
// explicit duration.
const DefaultDurationMinutes = 60

// Domain errors.
var (
	ErrInvalidState        = errors.New("operation not allowed in current interview status")
	ErrNotInterviewer      = errors.New("caller is not the assigned interviewer")
	ErrDuplicateAssignment = errors.New("interview already exists for this application, interviewer and skeleton")
	ErrNotShortlisted      = errors.New("application must be shortlisted before an interview is assigned")
	ErrNoInterviewerRole   = errors.New("assignee does not hold the interviewer capability")
	ErrNotFound            = errors.New("interview not found")
)

// FocusArea is one named evaluation dimension on a skeleton.
type FocusArea struct {
	ID    string
	Title string
}

// Skeleton is an interview template whose focus areas seed the interview's
// response list.
type Skeleton struct {
	ID         string
	Name       string
	FocusAreas []FocusArea
}

// Response is the interviewer's feedback for one focus area. Empty at
// creation, populated only when the interview is submitted.
type Response struct {
	InterviewID    string
	FocusAreaTitle string
	Feedback       string
	Rating         int
}

// Interview is a scheduled evaluation of a shortlisted application.
// Cancellation is a retained terminal state, not a deletion, so the record
// survives for audit.
type Interview struct {
	ID              string
	ApplicationID   string
	InterviewerID   string
	SkeletonID      string
	AssignedByID    string
	Status          string
	ScheduledAt     time.Time // zero when unscheduled
	DurationMinutes int       // 0 means DefaultDurationMinutes
	LocationType    string
	LocationAddress string
	Notes           string // assignment notes, carried into the calendar invite
	CompletedAt     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration returns the scheduled length, applying the default when unset.
func (iv *Interview) Duration() time.Duration {
	minutes := iv.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// IsScheduled returns true when a concrete time slot has been set.
// INVARIANT: no fields are mutated
func (iv *Interview) IsScheduled() bool {
	return !iv.ScheduledAt.IsZero()
}

// Start transitions the interview to in_progress.
// PRE: Status is assigned; caller is the assigned interviewer
// POST: Status is in_progress
func (iv *Interview) Start(interviewerID string, now time.Time) error {
	if iv.Status != StatusAssigned {
		return ErrInvalidState
	}
	if interviewerID != iv.InterviewerID {
		return ErrNotInterviewer
	}
	iv.Status = StatusInProgress
	iv.UpdatedAt = now
	return nil
}

// Submit completes the interview.
// PRE: Status is in_progress; caller is the assigned interviewer
// POST: Status is completed, CompletedAt set; responses are persisted by the caller
func (iv *Interview) Submit(interviewerID string, now time.Time) error {
	if iv.Status != StatusInProgress {
		return ErrInvalidState
	}
	if interviewerID != iv.InterviewerID {
		return ErrNotInterviewer
	}
	iv.Status = StatusCompleted
	iv.CompletedAt = now
	iv.UpdatedAt = now
	return nil
}

// Cancel marks the interview cancelled.
// PRE: Status is assigned or in_progress; completed interviews cannot be cancelled
// POST: Status is cancelled (terminal, record retained)
func (iv *Interview) Cancel(now time.Time) error {
	if iv.Status == StatusCompleted || iv.Status == StatusCancelled {
		return ErrInvalidState
	}
	iv.Status = StatusCancelled
	iv.UpdatedAt = now
	return nil
}

// SeedResponses builds the empty per-focus-area response rows for a freshly
// assigned interview.
func SeedResponses(interviewID string, sk Skeleton) []Response {
	responses := make([]Response, 0, len(sk.FocusAreas))
	for _, fa := range sk.FocusAreas {
		responses = append(responses, Response{
			InterviewID:    interviewID,
			FocusAreaTitle: fa.Title,
		})
	}
	return responses
}
