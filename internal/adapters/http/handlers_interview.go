package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentdesk/internal/application/orchestrators"
	interviewDomain "talentdesk/internal/domain/interview"
)

// interviewStatusCode maps interview domain errors to HTTP statuses.
func interviewStatusCode(err error) int {
	switch {
	case errors.Is(err, interviewDomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interviewDomain.ErrDuplicateAssignment):
		return http.StatusConflict
	case errors.Is(err, interviewDomain.ErrInvalidState),
		errors.Is(err, interviewDomain.ErrNotInterviewer),
		errors.Is(err, interviewDomain.ErrNotShortlisted),
		errors.Is(err, interviewDomain.ErrNoInterviewerRole):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// handleAssignInterview assigns an interviewer to a shortlisted application.
// Route: POST /api/interviews/assign
func handleAssignInterview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ApplicationID   string `json:"applicationId"`
		InterviewerID   string `json:"interviewerId"`
		SkeletonID      string `json:"skeletonId"`
		AssignedByID    string `json:"assignedById"`
		ScheduledAt     string `json:"scheduledAt,omitempty"` // RFC 3339
		DurationMinutes int    `json:"durationMinutes,omitempty"`
		LocationType    string `json:"locationType,omitempty"`
		LocationAddress string `json:"locationAddress,omitempty"`
		Notes           string `json:"notes,omitempty"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ApplicationID == "" || req.InterviewerID == "" || req.SkeletonID == "" || req.AssignedByID == "" {
		http.Error(w, "applicationId, interviewerId, skeletonId and assignedById are required", http.StatusBadRequest)
		return
	}

	var scheduledAt time.Time
	if req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			http.Error(w, "scheduledAt must be RFC 3339", http.StatusBadRequest)
			return
		}
		scheduledAt = t
	}

	iv, err := orchestrators.ExecuteAssignInterview(r.Context(), orchestrators.AssignInterviewInput{
		ApplicationID:   req.ApplicationID,
		InterviewerID:   req.InterviewerID,
		SkeletonID:      req.SkeletonID,
		AssignedByID:    req.AssignedByID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		LocationType:    req.LocationType,
		LocationAddress: req.LocationAddress,
		Notes:           req.Notes,
	}, orchestrators.AssignInterviewDeps{
		Interviews:   stores.InterviewStore,
		Applications: stores.ApplicationStore,
		Accounts:     stores.AccountStore,
		Notify:       notifyDeps(),
		Calendar:     calendarGen,
		Now:          time.Now,
		GenerateID:   func() string { return uuid.New().String() },
	})
	if err != nil {
		code := interviewStatusCode(err)
		if code == http.StatusInternalServerError {
			internalError(w, err)
			return
		}
		http.Error(w, err.Error(), code)
		return
	}
	writeJSON(w, http.StatusCreated, iv)
}

// handleInterviewActions handles lifecycle transitions on one interview.
// Routes: POST /api/interviews/{id}/start, /api/interviews/{id}/submit,
// /api/interviews/{id}/cancel
func handleInterviewActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "api" || parts[1] != "interviews" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	interviewID := parts[2]
	action := parts[3]

	switch action {
	case "start":
		var req struct {
			InterviewerID string `json:"interviewerId"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		iv, err := orchestrators.ExecuteStartInterview(r.Context(), orchestrators.StartInterviewInput{
			InterviewID:   interviewID,
			InterviewerID: req.InterviewerID,
		}, lifecycleDeps())
		if err != nil {
			http.Error(w, err.Error(), interviewStatusCode(err))
			return
		}
		writeJSON(w, http.StatusOK, iv)

	case "submit":
		var req struct {
			InterviewerID string `json:"interviewerId"`
			Responses     []struct {
				FocusAreaTitle string `json:"focusAreaTitle"`
				Feedback       string `json:"feedback"`
				Rating         int    `json:"rating"`
			} `json:"responses"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		responses := make([]interviewDomain.Response, 0, len(req.Responses))
		for _, resp := range req.Responses {
			responses = append(responses, interviewDomain.Response{
				FocusAreaTitle: resp.FocusAreaTitle,
				Feedback:       resp.Feedback,
				Rating:         resp.Rating,
			})
		}
		iv, err := orchestrators.ExecuteSubmitInterview(r.Context(), orchestrators.SubmitInterviewInput{
			InterviewID:   interviewID,
			InterviewerID: req.InterviewerID,
			Responses:     responses,
		}, lifecycleDeps())
		if err != nil {
			http.Error(w, err.Error(), interviewStatusCode(err))
			return
		}
		writeJSON(w, http.StatusOK, iv)

	case "cancel":
		var req struct {
			ActorID string `json:"actorId"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteCancelInterview(r.Context(), orchestrators.CancelInterviewInput{
			InterviewID: interviewID,
			ActorID:     req.ActorID,
		}, orchestrators.CancelInterviewDeps{
			Interviews:   stores.InterviewStore,
			Applications: stores.ApplicationStore,
			Accounts:     stores.AccountStore,
			Notify:       notifyDeps(),
			Now:          time.Now,
		})
		if err != nil {
			http.Error(w, err.Error(), interviewStatusCode(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})

	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

// lifecycleDeps assembles the dependencies for notification-free transitions.
func lifecycleDeps() orchestrators.LifecycleDeps {
	return orchestrators.LifecycleDeps{
		Interviews: stores.InterviewStore,
		Now:        time.Now,
	}
}
