package web

import (
	"errors"
	"net/http"
	"strings"

	"talentdesk/internal/application/listutil"
	"talentdesk/internal/application/orchestrators"
	notifDomain "talentdesk/internal/domain/notification"
)

// handleAdminNotifications lists notification records by status, newest
// first, paginated.
// Route: GET /admin/notifications?status=pending|sent|failed&page=N&per_page=N
// (status defaults to failed)
func handleAdminNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = notifDomain.StatusFailed
	}
	switch status {
	case notifDomain.StatusPending, notifDomain.StatusSent, notifDomain.StatusFailed:
	default:
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	records, err := stores.NotificationStore.ListByStatus(r.Context(), status)
	if err != nil {
		internalError(w, err)
		return
	}

	params := listutil.ParsePageParams(r.URL.Query())
	info := listutil.NewPageInfo(params.Page, params.PerPage, len(records))
	page := records[info.Offset():info.EndRow()]
	if page == nil {
		page = []notifDomain.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":  page,
		"pageInfo": info,
	})
}

// handleNotificationStats reports record counts per status.
// Route: GET /admin/notifications/stats
func handleNotificationStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, err := stores.NotificationStore.CountByStatus(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// handleResendFailed retries every failed record in one pass.
// Route: POST /admin/notifications/resend-failed
func handleResendFailed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := orchestrators.ExecuteResendAllFailed(r.Context(), deliverDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAdminNotificationActions handles per-record actions.
// Route: POST /admin/notifications/{id}/resend
func handleAdminNotificationActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "admin" || parts[1] != "notifications" || parts[3] != "resend" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	recordID := parts[2]

	rec, err := orchestrators.ExecuteResendRecord(r.Context(), recordID, deliverDeps())
	if errors.Is(err, notifDomain.ErrNotFound) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if err != nil {
		// The retry attempt is already persisted on the record.
		writeJSON(w, http.StatusBadGateway, rec)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
