package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	appStore "talentdesk/internal/adapters/storage/application"
	"talentdesk/internal/application/orchestrators"
	"talentdesk/internal/domain/recruiting"
)

// handleReceiveApplication registers a new application.
// Route: POST /api/applications
func handleReceiveApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		JobID     string `json:"jobId"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.JobID == "" {
		http.Error(w, "email and jobId are required", http.StatusBadRequest)
		return
	}

	app, err := orchestrators.ExecuteReceiveApplication(r.Context(), orchestrators.ReceiveApplicationInput{
		Candidate: recruiting.Candidate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		},
		JobID: req.JobID,
	}, orchestrators.ReceiveApplicationDeps{
		Applications: stores.ApplicationStore,
		Notify:       notifyDeps(),
		Now:          time.Now,
		GenerateID:   func() string { return uuid.New().String() },
	})
	if err != nil {
		if errors.Is(err, appStore.ErrNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// handleApplicationStatus changes an application's status.
// Route: POST /api/applications/{id}/status
func handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "api" || parts[1] != "applications" || parts[3] != "status" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	applicationID := parts[2]

	var req struct {
		Status  string `json:"status"`
		ActorID string `json:"actorId"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	app, err := orchestrators.ExecuteChangeApplicationStatus(r.Context(), orchestrators.ChangeApplicationStatusInput{
		ApplicationID: applicationID,
		NewStatus:     req.Status,
		ActorID:       req.ActorID,
	}, orchestrators.ChangeApplicationStatusDeps{
		Applications: stores.ApplicationStore,
		Notify:       notifyDeps(),
	})
	if err != nil {
		if errors.Is(err, appStore.ErrNotFound) {
			http.Error(w, "application not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, app)
}
