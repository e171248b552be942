package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appStore "talentdesk/internal/adapters/storage/application"
	"talentdesk/internal/domain/calendar"
	interviewDomain "talentdesk/internal/domain/interview"
	"talentdesk/internal/domain/recruiting"
)

// --- Mock interview store ---

type mockInterviewStore struct {
	interviews map[string]interviewDomain.Interview
	responses  map[string][]interviewDomain.Response
	skeletons  map[string]interviewDomain.Skeleton
}

func newMockInterviewStore() *mockInterviewStore {
	return &mockInterviewStore{
		interviews: make(map[string]interviewDomain.Interview),
		responses:  make(map[string][]interviewDomain.Response),
		skeletons:  make(map[string]interviewDomain.Skeleton),
	}
}

func (m *mockInterviewStore) Save(_ context.Context, iv interviewDomain.Interview) error {
	m.interviews[iv.ID] = iv
	return nil
}

// GetByID mirrors the real store: cancelled interviews are invisible.
func (m *mockInterviewStore) GetByID(_ context.Context, id string) (interviewDomain.Interview, error) {
	iv, ok := m.interviews[id]
	if !ok || iv.Status == interviewDomain.StatusCancelled {
		return interviewDomain.Interview{}, interviewDomain.ErrNotFound
	}
	return iv, nil
}

func (m *mockInterviewStore) GetByIDAny(_ context.Context, id string) (interviewDomain.Interview, error) {
	iv, ok := m.interviews[id]
	if !ok {
		return interviewDomain.Interview{}, interviewDomain.ErrNotFound
	}
	return iv, nil
}

func (m *mockInterviewStore) ExistsForAssignment(_ context.Context, applicationID, interviewerID, skeletonID string) (bool, error) {
	for _, iv := range m.interviews {
		if iv.Status == interviewDomain.StatusCancelled {
			continue
		}
		if iv.ApplicationID == applicationID && iv.InterviewerID == interviewerID && iv.SkeletonID == skeletonID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInterviewStore) SaveResponses(_ context.Context, interviewID string, responses []interviewDomain.Response) error {
	m.responses[interviewID] = responses
	return nil
}

func (m *mockInterviewStore) GetResponses(_ context.Context, interviewID string) ([]interviewDomain.Response, error) {
	return m.responses[interviewID], nil
}

func (m *mockInterviewStore) GetSkeleton(_ context.Context, id string) (interviewDomain.Skeleton, error) {
	sk, ok := m.skeletons[id]
	if !ok {
		return interviewDomain.Skeleton{}, errors.New("skeleton not found")
	}
	return sk, nil
}

// --- Mock application store ---

type mockApplicationStore struct {
	apps  map[string]recruiting.Application
	users map[string]recruiting.User // for SetStatus shortlister hydration
}

func newMockApplicationStore() *mockApplicationStore {
	return &mockApplicationStore{
		apps:  make(map[string]recruiting.Application),
		users: make(map[string]recruiting.User),
	}
}

func (m *mockApplicationStore) GetByID(_ context.Context, id string) (recruiting.Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return recruiting.Application{}, appStore.ErrNotFound
	}
	return app, nil
}

func (m *mockApplicationStore) List(_ context.Context, filter appStore.ListFilter) ([]recruiting.Application, error) {
	var result []recruiting.Application
	for _, app := range m.apps {
		if filter.JobID != "" && app.Job.ID != filter.JobID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		result = append(result, app)
	}
	return result, nil
}

func (m *mockApplicationStore) ListByIDs(_ context.Context, ids []string) ([]recruiting.Application, error) {
	var result []recruiting.Application
	for _, id := range ids {
		if app, ok := m.apps[id]; ok {
			result = append(result, app)
		}
	}
	return result, nil
}

func (m *mockApplicationStore) Save(_ context.Context, app recruiting.Application) error {
	m.apps[app.ID] = app
	return nil
}

func (m *mockApplicationStore) SetStatus(_ context.Context, id, status, shortlistedBy string) error {
	app, ok := m.apps[id]
	if !ok {
		return appStore.ErrNotFound
	}
	app.Status = status
	if shortlistedBy != "" {
		u := m.users[shortlistedBy]
		if u.ID == "" {
			u = recruiting.User{ID: shortlistedBy}
		}
		app.ShortlistedBy = &u
	}
	m.apps[id] = app
	return nil
}

func (m *mockApplicationStore) SaveCandidate(_ context.Context, _ recruiting.Candidate) error {
	return nil
}

func (m *mockApplicationStore) SaveJob(_ context.Context, _ recruiting.Job) error {
	return nil
}

// --- Mock account store ---

type mockAccountStore struct {
	users map[string]recruiting.User
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{users: make(map[string]recruiting.User)}
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (recruiting.User, error) {
	u, ok := m.users[id]
	if !ok {
		return recruiting.User{}, errors.New("account not found")
	}
	return u, nil
}

// --- Fixtures ---

type assignFixture struct {
	interviews *mockInterviewStore
	apps       *mockApplicationStore
	accounts   *mockAccountStore
	records    *mockRecordStore
	sender     *mockSender
	deps       AssignInterviewDeps
}

func newAssignFixture() *assignFixture {
	f := &assignFixture{
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
	f.accounts.users["u-admin"] = recruiting.User{ID: "u-admin", Name: "Ada Admin", Email: "ada@talentdesk.example.com", Role: recruiting.RoleAdmin}
	f.accounts.users["u-cand"] = recruiting.User{ID: "u-cand", Name: "No Role", Email: "norole@example.com", Role: recruiting.RoleCandidate}

	f.interviews.skeletons["sk-1"] = interviewDomain.Skeleton{
		ID:   "sk-1",
		Name: "Technical Round",
		FocusAreas: []interviewDomain.FocusArea{
			{ID: "fa-1", Title: "System Design"},
			{ID: "fa-2", Title: "Coding"},
		},
	}

	f.deps = AssignInterviewDeps{
		Interviews:   f.interviews,
		Applications: f.apps,
		Accounts:     f.accounts,
		Notify:       NotifyEventDeps{Deliver: testDeliverDeps(f.records, f.sender), CompanyName: "TalentDesk"},
		Calendar: &calendar.Generator{
			OrgDomain: "talentdesk.example.com",
			Now:       func() time.Time { return fixedTime },
			NewUID:    func() string { return "uid" },
		},
		Now:        func() time.Time { return fixedTime },
		GenerateID: func() string { return "iv-1" },
	}
	return f
}

func validAssignInput() AssignInterviewInput {
	return AssignInterviewInput{
		ApplicationID: "app-1",
		InterviewerID: "u-int",
		SkeletonID:    "sk-1",
		AssignedByID:  "u-admin",
		ScheduledAt:   time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC),
		LocationType:  interviewDomain.LocationOnline,
	}
}

// --- Tests ---

func TestExecuteAssignInterview_Success(t *testing.T) {
	f := newAssignFixture()

	iv, err := ExecuteAssignInterview(context.Background(), validAssignInput(), f.deps)
	if err != nil {
		t.Fatalf("ExecuteAssignInterview() error = %v", err)
	}

	if iv.Status != interviewDomain.StatusAssigned {
		t.Errorf("status = %q, want assigned", iv.Status)
	}
	stored, err := f.interviews.GetByID(context.Background(), iv.ID)
	if err != nil {
		t.Fatalf("interview not persisted: %v", err)
	}
	if stored.AssignedByID != "u-admin" {
		t.Errorf("assigned by = %q, want u-admin", stored.AssignedByID)
	}

	responses, _ := f.interviews.GetResponses(context.Background(), iv.ID)
	if len(responses) != 2 {
		t.Fatalf("seeded %d responses, want 2", len(responses))
	}
	for _, r := range responses {
		if r.Feedback != "" || r.Rating != 0 {
			t.Errorf("seeded response not empty: %+v", r)
		}
	}
}

func TestExecuteAssignInterview_SendOrder(t *testing.T) {
	f := newAssignFixture()

	if _, err := ExecuteAssignInterview(context.Background(), validAssignInput(), f.deps); err != nil {
		t.Fatalf("ExecuteAssignInterview() error = %v", err)
	}

	// Two assignment emails, then three calendar sends, in a fixed order.
	reqs := f.sender.requests
	if len(reqs) != 5 {
		t.Fatalf("sender got %d requests, want 5", len(reqs))
	}
	wantOrder := []string{
		"sam@talentdesk.example.com", // assignment: interviewer
		"jane@example.com",           // assignment: candidate
		"sam@talentdesk.example.com", // calendar: interviewer
		"jane@example.com",           // calendar: candidate
		"ada@talentdesk.example.com", // calendar: admin
	}
	for i, want := range wantOrder {
		if reqs[i].To[0] != want {
			t.Errorf("request %d to %q, want %q", i, reqs[i].To[0], want)
		}
	}

	for i := 0; i < 2; i++ {
		if len(reqs[i].Attachments) != 0 {
			t.Errorf("assignment email %d has attachments", i)
		}
	}
	for i := 2; i < 5; i++ {
		if len(reqs[i].Attachments) != 1 {
			t.Fatalf("calendar send %d has %d attachments, want 1", i, len(reqs[i].Attachments))
		}
		a := reqs[i].Attachments[0]
		if a.ContentType != calendar.MediaType {
			t.Errorf("calendar send %d content type = %q", i, a.ContentType)
		}
		if a.Filename != "interview.ics" {
			t.Errorf("calendar send %d filename = %q", i, a.Filename)
		}
	}

	// One artifact, generated once: all three sends carry identical bytes.
	ics := string(reqs[2].Attachments[0].Content)
	if string(reqs[3].Attachments[0].Content) != ics || string(reqs[4].Attachments[0].Content) != ics {
		t.Error("calendar sends carry different artifacts, want one shared generation")
	}
	if !strings.Contains(ics, "DTSTART:20240610T140000") {
		t.Errorf("artifact missing expected DTSTART: %q", ics)
	}
	if !strings.Contains(ics, "DTEND:20240610T150000") {
		t.Errorf("artifact missing default-duration DTEND: %q", ics)
	}
}

// Assignment notes must survive to the stored interview and into every
// delivered calendar attachment's DESCRIPTION.
func TestExecuteAssignInterview_NotesReachCalendarInvite(t *testing.T) {
	f := newAssignFixture()
	input := validAssignInput()
	input.Notes = "Bring portfolio"

	iv, err := ExecuteAssignInterview(context.Background(), input, f.deps)
	if err != nil {
		t.Fatalf("ExecuteAssignInterview() error = %v", err)
	}

	stored, err := f.interviews.GetByID(context.Background(), iv.ID)
	if err != nil {
		t.Fatalf("interview not persisted: %v", err)
	}
	if stored.Notes != "Bring portfolio" {
		t.Errorf("stored notes = %q, want %q", stored.Notes, "Bring portfolio")
	}

	attachments := 0
	for _, req := range f.sender.requests {
		for _, a := range req.Attachments {
			attachments++
			if !strings.Contains(string(a.Content), "Notes: Bring portfolio") {
				t.Errorf("calendar attachment to %v missing notes line:\n%s", req.To, a.Content)
			}
		}
	}
	if attachments != 3 {
		t.Fatalf("got %d calendar attachments, want 3", attachments)
	}
}

func TestExecuteAssignInterview_NotShortlisted(t *testing.T) {
	f := newAssignFixture()
	app := f.apps.apps["app-1"]
	app.Status = recruiting.StatusReceived
	f.apps.apps["app-1"] = app

	_, err := ExecuteAssignInterview(context.Background(), validAssignInput(), f.deps)
	if !errors.Is(err, interviewDomain.ErrNotShortlisted) {
		t.Errorf("error = %v, want ErrNotShortlisted", err)
	}
	if len(f.interviews.interviews) != 0 {
		t.Error("no interview should be persisted")
	}
	if len(f.sender.requests) != 0 {
		t.Error("no emails should be sent")
	}
}

func TestExecuteAssignInterview_AssigneeLacksRole(t *testing.T) {
	f := newAssignFixture()
	input := validAssignInput()
	input.InterviewerID = "u-cand"

	_, err := ExecuteAssignInterview(context.Background(), input, f.deps)
	if !errors.Is(err, interviewDomain.ErrNoInterviewerRole) {
		t.Errorf("error = %v, want ErrNoInterviewerRole", err)
	}
}

func TestExecuteAssignInterview_DuplicateTriple(t *testing.T) {
	f := newAssignFixture()
	f.interviews.interviews["iv-existing"] = interviewDomain.Interview{
		ID:            "iv-existing",
		ApplicationID: "app-1",
		InterviewerID: "u-int",
		SkeletonID:    "sk-1",
		Status:        interviewDomain.StatusAssigned,
	}

	_, err := ExecuteAssignInterview(context.Background(), validAssignInput(), f.deps)
	if !errors.Is(err, interviewDomain.ErrDuplicateAssignment) {
		t.Errorf("error = %v, want ErrDuplicateAssignment", err)
	}
}

func TestExecuteAssignInterview_CancelledInterviewDoesNotBlockReassignment(t *testing.T) {
	f := newAssignFixture()
	f.interviews.interviews["iv-old"] = interviewDomain.Interview{
		ID:            "iv-old",
		ApplicationID: "app-1",
		InterviewerID: "u-int",
		SkeletonID:    "sk-1",
		Status:        interviewDomain.StatusCancelled,
	}

	if _, err := ExecuteAssignInterview(context.Background(), validAssignInput(), f.deps); err != nil {
		t.Errorf("ExecuteAssignInterview() error = %v, want reassignment to succeed", err)
	}
}

func TestExecuteAssignInterview_EmailFailuresDoNotFailAssignment(t *testing.T) {
	f := newAssignFixture()
	f.sender.failFor["sam@talentdesk.example.com"] = errors.New("provider down")
	f.sender.failFor["jane@example.com"] = errors.New("provider down")
	f.sender.failFor["ada@talentdesk.example.com"] = errors.New("provider down")

	iv, err := ExecuteAssignInterview(context.Background(), validAssignInput(), f.deps)
	if err != nil {
		t.Fatalf("ExecuteAssignInterview() error = %v, want assignment to succeed", err)
	}
	if _, err := f.interviews.GetByID(context.Background(), iv.ID); err != nil {
		t.Errorf("interview not persisted: %v", err)
	}

	// Every attempted send left a failed record behind.
	failed, _ := f.records.ListByStatus(context.Background(), "failed")
	if len(failed) != 5 {
		t.Errorf("store has %d failed records, want 5", len(failed))
	}
}

func TestExecuteAssignInterview_UnscheduledSkipsCalendar(t *testing.T) {
	f := newAssignFixture()
	input := validAssignInput()
	input.ScheduledAt = time.Time{}

	if _, err := ExecuteAssignInterview(context.Background(), input, f.deps); err != nil {
		t.Fatalf("ExecuteAssignInterview() error = %v", err)
	}
	if len(f.sender.requests) != 2 {
		t.Fatalf("sender got %d requests, want 2 without a schedule", len(f.sender.requests))
	}
	for i, req := range f.sender.requests {
		if len(req.Attachments) != 0 {
			t.Errorf("request %d has attachments without a schedule", i)
		}
	}
}
