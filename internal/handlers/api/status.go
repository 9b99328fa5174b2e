package api

import "net/http"

type statusResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// getStatus reports that the server is alive
func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Name:    h.appName,
		Version: h.appVersion,
		Status:  "ok",
	})
}
