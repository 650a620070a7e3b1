package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gitapp/internal/github"
	"gitapp/internal/logger"
	"gitapp/internal/store"
	"gitapp/pkg/api"
)

const maxListLimit = 100

// CreateBuild handles POST /api/builds.
// Everything detectable before the record exists (bad input, failed
// analysis) is surfaced synchronously; once the record is created the
// trigger runs in the background and its outcome lands on the record only.
func (h *Handlers) CreateBuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.log)

	var req api.CreateBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.RepoURL == "" || req.Platform == "" || req.Profile == "" {
		h.httpError(w, "repoUrl, platform, and profile are required", http.StatusBadRequest)
		return
	}

	platform := store.Platform(req.Platform)
	if !platform.Valid() {
		h.httpError(w, "platform must be android, ios, or both", http.StatusBadRequest)
		return
	}
	profile := store.Profile(req.Profile)
	if !profile.Valid() {
		h.httpError(w, "profile must be development, preview, or production", http.StatusBadRequest)
		return
	}

	if _, _, ok := github.ParseRepoURL(req.RepoURL); !ok {
		h.httpError(w, "Invalid GitHub repository URL", http.StatusBadRequest)
		return
	}

	analysis := h.analyzer.Analyze(ctx, req.RepoURL)
	if !analysis.Valid {
		msg := analysis.ErrorMessage
		if msg == "" {
			msg = "Invalid repository"
		}
		h.httpError(w, msg, http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	build := &store.Build{
		ID:        uuid.NewString(),
		RepoURL:   req.RepoURL,
		RepoName:  analysis.Name,
		Framework: analysis.Framework,
		Platform:  platform,
		Profile:   profile,
		Status:    store.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateBuild(ctx, build); err != nil {
		log.Error("failed to create build", "error", err)
		h.httpError(w, "Failed to create build", http.StatusInternalServerError)
		return
	}

	// Hand off the trigger; the response does not wait for the provider.
	buildID := build.ID
	err := h.tasks.Submit(func(taskCtx context.Context) {
		h.runner.Trigger(taskCtx, buildID, platform, profile)
	})
	if err != nil {
		// The record exists, so the failure is recorded on it, never
		// returned to this request.
		log.Warn("trigger hand-off rejected", "build_id", buildID, "error", err)
		failed := store.StatusFailed
		msg := "Build trigger failed: " + err.Error()
		if updateErr := h.store.UpdateBuild(ctx, buildID, store.BuildPatch{
			Status:       &failed,
			ErrorMessage: &msg,
		}); updateErr != nil {
			log.Error("failed to record trigger rejection", "build_id", buildID, "error", updateErr)
		}
	}

	h.respondJSON(w, http.StatusCreated, buildToAPI(build))
}

// ListBuilds handles GET /api/builds.
func (h *Handlers) ListBuilds(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.httpError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	builds, err := h.store.ListBuilds(r.Context(), limit)
	if err != nil {
		logger.FromContext(r.Context(), h.log).Error("failed to list builds", "error", err)
		h.httpError(w, "Failed to fetch builds", http.StatusInternalServerError)
		return
	}

	out := make([]api.Build, 0, len(builds))
	for _, b := range builds {
		out = append(out, buildToAPI(b))
	}
	h.respondJSON(w, http.StatusOK, out)
}

// GetBuild handles GET /api/builds/{id}.
func (h *Handlers) GetBuild(w http.ResponseWriter, r *http.Request) {
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
	h.respondJSON(w, http.StatusOK, buildToAPI(build))
}

// DeleteBuild handles DELETE /api/builds/{id}. Deletion is idempotent:
// deleting an id that is already gone still succeeds.
func (h *Handlers) DeleteBuild(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteBuild(r.Context(), r.PathValue("id")); err != nil {
		logger.FromContext(r.Context(), h.log).Error("failed to delete build", "error", err)
		h.httpError(w, "Failed to delete build", http.StatusInternalServerError)
		return
	}
	h.respondJSON(w, http.StatusOK, api.DeleteBuildResponse{Success: true})
}

// PollBuild handles POST /api/builds/{id}/poll. It reconciles the record
// with the provider for every platform sub-build that has a provider id,
// then returns the refreshed record. Polling a terminal build changes
// nothing, and one sub-poll settling the record stops the remaining ones:
// no transition ever leaves a terminal state.
func (h *Handlers) PollBuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	build, err := h.store.GetBuildByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Build not found", http.StatusNotFound)
			return
		}
		logger.FromContext(ctx, h.log).Error("failed to fetch build", "error", err)
		h.httpError(w, "Failed to fetch build", http.StatusInternalServerError)
		return
	}

	if !build.Status.Terminal() && build.AndroidBuildID != nil {
		h.runner.PollStatus(ctx, id, *build.AndroidBuildID, store.PlatformAndroid)

		// The android result may have settled the record.
		if build, err = h.store.GetBuildByID(ctx, id); err != nil {
			logger.FromContext(ctx, h.log).Error("failed to re-fetch build", "error", err)
			h.httpError(w, "Failed to fetch build", http.StatusInternalServerError)
			return
		}
	}

	if !build.Status.Terminal() && build.IOSBuildID != nil {
		h.runner.PollStatus(ctx, id, *build.IOSBuildID, store.PlatformIOS)

		if build, err = h.store.GetBuildByID(ctx, id); err != nil {
			logger.FromContext(ctx, h.log).Error("failed to re-fetch build", "error", err)
			h.httpError(w, "Failed to fetch build", http.StatusInternalServerError)
			return
		}
	}

	h.respondJSON(w, http.StatusOK, buildToAPI(build))
}
