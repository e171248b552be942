package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// registerRoutes attaches all handlers to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/admin/notifications", handleAdminNotifications)
	mux.HandleFunc("/admin/notifications/", handleAdminNotificationActions)
	mux.HandleFunc("/admin/notifications/stats", handleNotificationStats)
	mux.HandleFunc("/admin/notifications/resend-failed", handleResendFailed)
	mux.HandleFunc("/api/campaigns/send", handleCampaignSend)
	mux.HandleFunc("/api/campaigns/preview", handleCampaignPreview)
	mux.HandleFunc("/api/applications", handleReceiveApplication)
	mux.HandleFunc("/api/applications/", handleApplicationStatus)
	mux.HandleFunc("/api/interviews/assign", handleAssignInterview)
	mux.HandleFunc("/api/interviews/", handleInterviewActions)
}

// internalError logs the error and responds with a generic 500.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
