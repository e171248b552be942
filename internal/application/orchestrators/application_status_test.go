package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"talentdesk/internal/domain/recruiting"
)

func newStatusFixture() (*mockApplicationStore, *mockRecordStore, *mockSender, ChangeApplicationStatusDeps) {
	apps := newMockApplicationStore()
	records := newMockRecordStore()
	sender := newMockSender()

	app := testApplication()
	apps.apps[app.ID] = app
	apps.users["u-admin"] = recruiting.User{ID: "u-admin", Name: "Ada Admin", Email: "ada@talentdesk.example.com", Role: recruiting.RoleAdmin}

	deps := ChangeApplicationStatusDeps{
		Applications: apps,
		Notify:       NotifyEventDeps{Deliver: testDeliverDeps(records, sender), CompanyName: "TalentDesk"},
	}
	return apps, records, sender, deps
}

func TestExecuteChangeApplicationStatus_ShortlistRecordsActor(t *testing.T) {
	apps, _, sender, deps := newStatusFixture()

	app, err := ExecuteChangeApplicationStatus(context.Background(), ChangeApplicationStatusInput{
		ApplicationID: "app-1",
		NewStatus:     recruiting.StatusShortlisted,
		ActorID:       "u-admin",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteChangeApplicationStatus() error = %v", err)
	}

	if app.Status != recruiting.StatusShortlisted {
		t.Errorf("status = %q, want shortlisted", app.Status)
	}
	if app.ShortlistedBy == nil || app.ShortlistedBy.ID != "u-admin" {
		t.Errorf("shortlisted by = %+v, want u-admin", app.ShortlistedBy)
	}

	stored := apps.apps["app-1"]
	if stored.Status != recruiting.StatusShortlisted {
		t.Errorf("stored status = %q", stored.Status)
	}
	if len(sender.requests) != 1 {
		t.Fatalf("sender got %d requests, want 1", len(sender.requests))
	}
	if sender.requests[0].Subject != "You have been shortlisted for Platform Engineer" {
		t.Errorf("subject = %q", sender.requests[0].Subject)
	}
}

func TestExecuteChangeApplicationStatus_OfferSendsJobOffer(t *testing.T) {
	_, records, sender, deps := newStatusFixture()

	if _, err := ExecuteChangeApplicationStatus(context.Background(), ChangeApplicationStatusInput{
		ApplicationID: "app-1",
		NewStatus:     recruiting.StatusOffer,
		ActorID:       "u-admin",
	}, deps); err != nil {
		t.Fatalf("ExecuteChangeApplicationStatus() error = %v", err)
	}

	if len(sender.requests) != 1 {
		t.Fatalf("sender got %d requests, want 1", len(sender.requests))
	}
	if !strings.HasPrefix(sender.requests[0].Subject, "Job offer:") {
		t.Errorf("subject = %q", sender.requests[0].Subject)
	}
	sent, _ := records.ListByStatus(context.Background(), "sent")
	if len(sent) != 1 || sent[0].TemplateName != "job-offer" {
		t.Errorf("records = %+v, want one sent job-offer record", sent)
	}
}

func TestExecuteChangeApplicationStatus_RejectedIsSilent(t *testing.T) {
	_, _, sender, deps := newStatusFixture()

	if _, err := ExecuteChangeApplicationStatus(context.Background(), ChangeApplicationStatusInput{
		ApplicationID: "app-1",
		NewStatus:     recruiting.StatusRejected,
		ActorID:       "u-admin",
	}, deps); err != nil {
		t.Fatalf("ExecuteChangeApplicationStatus() error = %v", err)
	}
	if len(sender.requests) != 0 {
		t.Errorf("sender got %d requests, want 0 for a silent status", len(sender.requests))
	}
}

func TestExecuteChangeApplicationStatus_FailedEmailDoesNotFailChange(t *testing.T) {
	apps, records, sender, deps := newStatusFixture()
	sender.failFor["jane@example.com"] = errors.New("provider down")

	if _, err := ExecuteChangeApplicationStatus(context.Background(), ChangeApplicationStatusInput{
		ApplicationID: "app-1",
		NewStatus:     recruiting.StatusReviewed,
		ActorID:       "u-admin",
	}, deps); err != nil {
		t.Fatalf("ExecuteChangeApplicationStatus() error = %v, want success", err)
	}

	if apps.apps["app-1"].Status != recruiting.StatusReviewed {
		t.Error("status change must persist despite the failed email")
	}
	failed, _ := records.ListByStatus(context.Background(), "failed")
	if len(failed) != 1 {
		t.Errorf("store has %d failed records, want 1", len(failed))
	}
}

func TestExecuteChangeApplicationStatus_RequiresActor(t *testing.T) {
	_, _, _, deps := newStatusFixture()

	_, err := ExecuteChangeApplicationStatus(context.Background(), ChangeApplicationStatusInput{
		ApplicationID: "app-1",
		NewStatus:     recruiting.StatusReviewed,
	}, deps)
	if err == nil {
		t.Error("ExecuteChangeApplicationStatus() error = nil, want actor validation error")
	}
}

func TestExecuteReceiveApplication_SendsConfirmation(t *testing.T) {
	apps := newMockApplicationStore()
	records := newMockRecordStore()
	sender := newMockSender()

	n := 0
	deps := ReceiveApplicationDeps{
		Applications: apps,
		Notify:       NotifyEventDeps{Deliver: testDeliverDeps(records, sender), CompanyName: "TalentDesk"},
		Now:          func() time.Time { return fixedTime },
		GenerateID: func() string {
			n++
			return "gen-" + string(rune('0'+n))
		},
	}

	app, err := ExecuteReceiveApplication(context.Background(), ReceiveApplicationInput{
		Candidate: recruiting.Candidate{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
		JobID:     "job-1",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteReceiveApplication() error = %v", err)
	}

	if app.Status != recruiting.StatusReceived {
		t.Errorf("status = %q, want received", app.Status)
	}
	if len(sender.requests) != 1 {
		t.Fatalf("sender got %d requests, want 1", len(sender.requests))
	}
	if sender.requests[0].To[0] != "jane@example.com" {
		t.Errorf("confirmation to %q, want candidate address", sender.requests[0].To[0])
	}
	// The rendered confirmation carries the application reference.
	if !strings.Contains(sender.requests[0].Body, app.ID) {
		t.Errorf("confirmation body missing application id %q:\n%s", app.ID, sender.requests[0].Body)
	}
}
