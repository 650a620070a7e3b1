package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gitapp/pkg/api"
)

// Analyze handles POST /api/analyze. It classifies a repository without
// creating a build record; an unanalyzable repository still answers 200
// with Valid=false and a human-readable message.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.RepoURL) == "" {
		h.httpError(w, "repoUrl is required", http.StatusBadRequest)
		return
	}

	analysis := h.analyzer.Analyze(r.Context(), strings.TrimSpace(req.RepoURL))
	h.respondJSON(w, http.StatusOK, analysis)
}
