package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gitapp/internal/logger"
	"gitapp/internal/store"
	"gitapp/internal/workflow"
)

// GetWorkflow handles GET /api/builds/{id}/workflow. The document is
// derived purely from the stored framework and platform and served as a
// downloadable attachment.
func (h *Handlers) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	build, err := h.store.GetBuildByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Build not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context(), h.log).Error("failed to fetch build", "error", err)
		h.httpError(w, "Failed to fetch build", http.StatusInternalServerError)
		return
	}

	doc := workflow.Generate(build.Framework, build.Platform)

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", workflow.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}
