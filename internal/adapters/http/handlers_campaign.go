package web

import (
	"net/http"

	"talentdesk/internal/application/orchestrators"
	campaignDomain "talentdesk/internal/domain/campaign"
)

// campaignSelectorJSON is the wire form of a campaign recipient selector.
type campaignSelectorJSON struct {
	ApplicationIDs []string `json:"applicationIds,omitempty"`
	JobID          string   `json:"jobId,omitempty"`
	Status         string   `json:"status,omitempty"`
}

func (s campaignSelectorJSON) toDomain() campaignDomain.Selector {
	return campaignDomain.Selector{
		ApplicationIDs: s.ApplicationIDs,
		JobID:          s.JobID,
		Status:         s.Status,
	}
}

// handleCampaignSend runs a bulk campaign.
// Route: POST /api/campaigns/send
func handleCampaignSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Selector      campaignSelectorJSON `json:"selector"`
		Subject       string               `json:"subject"`
		Content       string               `json:"content"`
		IsHTML        bool                 `json:"isHtml"`
		SendTestFirst bool                 `json:"sendTestFirst"`
		TestRecipient string               `json:"testRecipient"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	dd := deliverDeps()
	result, err := orchestrators.ExecuteBulkCampaign(r.Context(), orchestrators.BulkCampaignInput{
		Selector:      req.Selector.toDomain(),
		Subject:       req.Subject,
		Content:       req.Content,
		IsHTML:        req.IsHTML,
		SendTestFirst: req.SendTestFirst,
		TestRecipient: req.TestRecipient,
	}, orchestrators.BulkCampaignDeps{
		Applications: stores.ApplicationStore,
		Deliver:      dd,
		Now:          dd.Now,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCampaignPreview resolves a selector without sending.
// Route: POST /api/campaigns/preview
func handleCampaignPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Selector campaignSelectorJSON `json:"selector"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	recipients, err := orchestrators.ExecutePreviewCampaign(r.Context(), req.Selector.toDomain(),
		orchestrators.PreviewCampaignDeps{Applications: stores.ApplicationStore})
	if err != nil {
		internalError(w, err)
		return
	}
	if recipients == nil {
		recipients = []orchestrators.CampaignRecipient{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(recipients),
		"recipients": recipients,
	})
}
