package campaign

import (
	"testing"
	"time"

	"talentdesk/internal/domain/recruiting"
)

var fixedTime = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

// TestResult_Finalize_AllSuccess yields success and consistent totals.
func TestResult_Finalize_AllSuccess(t *testing.T) {
	r := Result{StartedAt: fixedTime}
	r.RecordSuccess()
	r.RecordSuccess()
	r.Finalize(fixedTime.Add(time.Second))
	if r.Status != StatusSuccess {
		t.Errorf("expected success, got %s", r.Status)
	}
	if r.TotalAttempted != 2 || r.SuccessCount+r.FailureCount != r.TotalAttempted {
		t.Errorf("totals inconsistent: %+v", r)
	}
}

// TestResult_Finalize_AllFailed yields failed when nothing succeeded.
func TestResult_Finalize_AllFailed(t *testing.T) {
	r := Result{}
	r.RecordFailure(Failure{Recipient: "a@b.c", ErrorMessage: "smtp timeout"})
	r.Finalize(fixedTime)
	if r.Status != StatusFailed {
		t.Errorf("expected failed, got %s", r.Status)
	}
}

// TestResult_Finalize_Empty yields failed: zero attempts is never a success.
func TestResult_Finalize_Empty(t *testing.T) {
	r := Result{}
	r.Finalize(fixedTime)
	if r.Status != StatusFailed {
		t.Errorf("expected failed for empty run, got %s", r.Status)
	}
	if r.TotalAttempted != 0 {
		t.Errorf("expected 0 attempted, got %d", r.TotalAttempted)
	}
}

// TestResult_Finalize_Partial yields partial_success on mixed outcomes.
func TestResult_Finalize_Partial(t *testing.T) {
	r := Result{}
	r.RecordSuccess()
	r.RecordFailure(Failure{Recipient: "a@b.c", ErrorMessage: "bounced"})
	r.Finalize(fixedTime)
	if r.Status != StatusPartialSuccess {
		t.Errorf("expected partial_success, got %s", r.Status)
	}
	if r.TotalAttempted != 2 {
		t.Errorf("expected 2 attempted, got %d", r.TotalAttempted)
	}
}

// TestPersonalize substitutes every token from the recipient's own data.
func TestPersonalize(t *testing.T) {
	app := recruiting.Application{
		ID:     "app-1",
		Status: recruiting.StatusShortlisted,
		Candidate: recruiting.Candidate{
			FirstName: "Mere", LastName: "Kahu", Email: "mere@example.com",
		},
		Job: recruiting.Job{Title: "Backend Engineer", Department: "Engineering"},
	}
	content := "Hi {{firstName}} {{lastName}} ({{candidateName}}), re {{jobTitle}} in {{jobDepartment}}: status {{applicationStatus}}."
	got := Personalize(content, app)
	want := "Hi Mere Kahu (Mere Kahu), re Backend Engineer in Engineering: status shortlisted."
	if got != want {
		t.Errorf("personalize mismatch:\n got: %s\nwant: %s", got, want)
	}
}

// TestPersonalize_NoTokens leaves plain content untouched.
func TestPersonalize_NoTokens(t *testing.T) {
	app := recruiting.Application{}
	if got := Personalize("plain text", app); got != "plain text" {
		t.Errorf("expected unchanged content, got %q", got)
	}
}
