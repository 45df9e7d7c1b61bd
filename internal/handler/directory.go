package handler

import (
	"net/http"

	"github.com/roadwatch/roadwatch/internal/model"
)

// DirectoryResponse lists the rescue teams an alert can go to
type DirectoryResponse struct {
	Contacts []model.RescueTeamContact `json:"contacts"`
}

// GetDirectory returns the rescue-team template with default selections
func (h *Handler) GetDirectory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DirectoryResponse{Contacts: h.alertSvc.Directory()})
}
