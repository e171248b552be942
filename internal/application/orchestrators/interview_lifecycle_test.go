package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	interviewDomain "talentdesk/internal/domain/interview"
	"talentdesk/internal/domain/recruiting"
)

type lifecycleFixture struct {
	interviews *mockInterviewStore
	apps       *mockApplicationStore
	accounts   *mockAccountStore
	records    *mockRecordStore
	sender     *mockSender
}

func newLifecycleFixture(status string) *lifecycleFixture {
	f := &lifecycleFixture{
		interviews: newMockInterviewStore(),
		apps:       newMockApplicationStore(),
		accounts:   newMockAccountStore(),
		records:    newMockRecordStore(),
		sender:     newMockSender(),
	}

	app := testApplication()
	app.Status = recruiting.StatusShortlisted
	f.apps.apps[app.ID] = app
	f.accounts.users["u-int"] = recruiting.User{ID: "u-int", Name: "Sam Lee", Email: "sam@talentdesk.example.com", Role: recruiting.RoleInterviewer}

	f.interviews.interviews["iv-1"] = interviewDomain.Interview{
		ID:            "iv-1",
		ApplicationID: "app-1",
		InterviewerID: "u-int",
		SkeletonID:    "sk-1",
		AssignedByID:  "u-admin",
		Status:        status,
		ScheduledAt:   time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC),
		LocationType:  interviewDomain.LocationOnline,
	}
	return f
}

func (f *lifecycleFixture) lifecycleDeps() LifecycleDeps {
	return LifecycleDeps{Interviews: f.interviews, Now: func() time.Time { return fixedTime }}
}

func (f *lifecycleFixture) cancelDeps() CancelInterviewDeps {
	return CancelInterviewDeps{
		Interviews:   f.interviews,
		Applications: f.apps,
		Accounts:     f.accounts,
		Notify:       NotifyEventDeps{Deliver: testDeliverDeps(f.records, f.sender), CompanyName: "TalentDesk"},
		Now:          func() time.Time { return fixedTime },
	}
}

// --- Start ---

func TestExecuteStartInterview_Success(t *testing.T) {
	f := newLifecycleFixture(interviewDomain.StatusAssigned)

	iv, err := ExecuteStartInterview(context.Background(), StartInterviewInput{
		InterviewID: "iv-1", InterviewerID: "u-int",
	}, f.lifecycleDeps())
	if err != nil {
		t.Fatalf("ExecuteStartInterview() error = %v", err)
	}
	if iv.Status != interviewDomain.StatusInProgress {
		t.Errorf("status = %q, want in_progress", iv.Status)
	}
}

func TestExecuteStartInterview_WrongCaller(t *testing.T) {
	f := newLifecycleFixture(interviewDomain.StatusAssigned)

	_, err := ExecuteStartInterview(context.Background(), StartInterviewInput{
		InterviewID: "iv-1", InterviewerID: "u-other",
	}, f.lifecycleDeps())
	if !errors.Is(err, interviewDomain.ErrNotInterviewer) {
		t.Errorf("error = %v, want ErrNotInterviewer", err)
	}
	stored, _ := f.interviews.GetByID(context.Background(), "iv-1")
	if stored.Status != interviewDomain.StatusAssigned {
		t.Errorf("status = %q, interview must be unchanged", stored.Status)
	}
}

// --- Submit ---

func TestExecuteSubmitInterview_Success(t *testing.T) {
	f := newLifecycleFixture(interviewDomain.StatusInProgress)

	responses := []interviewDomain.Response{
		{FocusAreaTitle: "System Design", Feedback: "solid", Rating: 4},
		{FocusAreaTitle: "Coding", Feedback: "excellent", Rating: 5},
	}
	iv, err := ExecuteSubmitInterview(context.Background(), SubmitInterviewInput{
		InterviewID: "iv-1", InterviewerID: "u-int", Responses: responses,
	}, f.lifecycleDeps())
	if err != nil {
		t.Fatalf("ExecuteSubmitInterview() error = %v", err)
	}
	if iv.Status != interviewDomain.StatusCompleted {
		t.Errorf("status = %q, want completed", iv.Status)
	}
	if !iv.CompletedAt.Equal(fixedTime) {
		t.Errorf("completed at = %v, want %v", iv.CompletedAt, fixedTime)
	}

	saved, _ := f.interviews.GetResponses(context.Background(), "iv-1")
	if len(saved) != 2 {
		t.Fatalf("saved %d responses, want 2", len(saved))
	}
	for _, r := range saved {
		if r.InterviewID != "iv-1" {
			t.Errorf("response interview id = %q, want iv-1", r.InterviewID)
		}
	}
}

func TestExecuteSubmitInterview_FromAssignedFails(t *testing.T) {
	f := newLifecycleFixture(interviewDomain.StatusAssigned)

	_, err := ExecuteSubmitInterview(context.Background(), SubmitInterviewInput{
		InterviewID: "iv-1", InterviewerID: "u-int",
	}, f.lifecycleDeps())
	if !errors.Is(err, interviewDomain.ErrInvalidState) {
		t.Errorf("error = %v, want ErrInvalidState", err)
	}
	stored, _ := f.interviews.GetByID(context.Background(), "iv-1")
	if stored.Status != interviewDomain.StatusAssigned {
		t.Errorf("status = %q, interview must be unchanged", stored.Status)
	}
	if got, _ := f.interviews.GetResponses(context.Background(), "iv-1"); len(got) != 0 {
		t.Error("responses must not be written on a rejected submit")
	}
}

// --- Cancel ---

func TestExecuteCancelInterview_RemovesFromLookup(t *testing.T) {
	f := newLifecycleFixture(interviewDomain.StatusAssigned)

	if err := ExecuteCancelInterview(context.Background(), CancelInterviewInput{
		InterviewID: "iv-1", ActorID: "u-admin",
	}, f.cancelDeps()); err != nil {
		t.Fatalf("ExecuteCancelInterview() error = %v", err)
	}

	if _, err := f.interviews.GetByID(context.Background(), "iv-1"); !errors.Is(err, interviewDomain.ErrNotFound) {
		t.Errorf("GetByID after cancel error = %v, want ErrNotFound", err)
	}
	audit, err := f.interviews.GetByIDAny(context.Background(), "iv-1")
	if err != nil {
		t.Fatalf("GetByIDAny() error = %v, row must be retained", err)
	}
	if audit.Status != interviewDomain.StatusCancelled {
		t.Errorf("retained status = %q, want cancelled", audit.Status)
	}
}

func TestExecuteCancelInterview_SendsBothEmailsBestEffort(t *testing.T) {
	f := newLifecycleFixture(interviewDomain.StatusInProgress)
	f.sender.failFor["sam@talentdesk.example.com"] = errors.New("provider down")

	if err := ExecuteCancelInterview(context.Background(), CancelInterviewInput{
		InterviewID: "iv-1", ActorID: "u-admin",
	}, f.cancelDeps()); err != nil {
		t.Fatalf("ExecuteCancelInterview() error = %v, want cancel to succeed", err)
	}

	// Interviewer first, then candidate; the interviewer failure does not
	// block the candidate email.
	if len(f.sender.requests) != 2 {
		t.Fatalf("sender got %d requests, want 2", len(f.sender.requests))
	}
	if f.sender.requests[0].To[0] != "sam@talentdesk.example.com" {
		t.Errorf("first cancellation email to %q, want interviewer", f.sender.requests[0].To[0])
	}
	if f.sender.requests[1].To[0] != "jane@example.com" {
		t.Errorf("second cancellation email to %q, want candidate", f.sender.requests[1].To[0])
	}

	failed, _ := f.records.ListByStatus(context.Background(), "failed")
	sent, _ := f.records.ListByStatus(context.Background(), "sent")
	if len(failed) != 1 || len(sent) != 1 {
		t.Errorf("records: %d failed, %d sent; want 1 and 1", len(failed), len(sent))
	}
}

func TestExecuteCancelInterview_CancelledBeforeEmails(t *testing.T) {
	f := newLifecycleFixture(interviewDomain.StatusAssigned)
	f.sender.failFor["sam@talentdesk.example.com"] = errors.New("provider down")
	f.sender.failFor["jane@example.com"] = errors.New("provider down")

	if err := ExecuteCancelInterview(context.Background(), CancelInterviewInput{
		InterviewID: "iv-1", ActorID: "u-admin",
	}, f.cancelDeps()); err != nil {
		t.Fatalf("ExecuteCancelInterview() error = %v", err)
	}

	// Both emails failed, the interview is still gone from lookup.
	if _, err := f.interviews.GetByID(context.Background(), "iv-1"); !errors.Is(err, interviewDomain.ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound even when all emails fail", err)
	}
}

func TestExecuteCancelInterview_CompletedRejected(t *testing.T) {
	f := newLifecycleFixture(interviewDomain.StatusCompleted)

	err := ExecuteCancelInterview(context.Background(), CancelInterviewInput{
		InterviewID: "iv-1", ActorID: "u-admin",
	}, f.cancelDeps())
	if !errors.Is(err, interviewDomain.ErrInvalidState) {
		t.Errorf("error = %v, want ErrInvalidState", err)
	}
	if len(f.sender.requests) != 0 {
		t.Error("no emails on a rejected cancel")
	}
}
