// Package handlers contains HTTP handlers for the controller API.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"gitapp/internal/github"
	"gitapp/internal/store"
	"gitapp/pkg/api"
)

// Store combines the persistence capabilities the handlers need.
type Store interface {
	store.BuildStore
	Ping(ctx context.Context) error
}

// Analyzer inspects a repository URL and classifies its framework.
type Analyzer interface {
	Analyze(ctx context.Context, repoURL string) *github.Analysis
}

// BuildRunner drives the trigger and poll flows for a build record.
type BuildRunner interface {
	Trigger(ctx context.Context, buildID string, platform store.Platform, profile store.Profile)
	PollStatus(ctx context.Context, buildID, providerBuildID string, platform store.Platform)
}

// TaskRunner accepts fire-and-forget background work.
type TaskRunner interface {
	Submit(task func(context.Context)) error
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	store    Store
	analyzer Analyzer
	runner   BuildRunner
	tasks    TaskRunner
	log      *slog.Logger
}

// New creates a Handlers instance with the given dependencies.
func New(s Store, analyzer Analyzer, runner BuildRunner, tasks TaskRunner, log *slog.Logger) *Handlers {
	return &Handlers{
		store:    s,
		analyzer: analyzer,
		runner:   runner,
		tasks:    tasks,
		log:      log,
	}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJSON(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}

// buildToAPI converts a store record to its API representation.
func buildToAPI(b *store.Build) api.Build {
	out := api.Build{
		ID:        b.ID,
		RepoURL:   b.RepoURL,
		RepoName:  b.RepoName,
		Framework: string(b.Framework),
		Platform:  string(b.Platform),
		Profile:   string(b.Profile),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.AndroidBuildID != nil {
		out.AndroidBuildID = *b.AndroidBuildID
	}
	if b.IOSBuildID != nil {
		out.IOSBuildID = *b.IOSBuildID
	}
	if b.AndroidArtifactURL != nil {
		out.AndroidArtifactURL = *b.AndroidArtifactURL
	}
	if b.IOSArtifactURL != nil {
		out.IOSArtifactURL = *b.IOSArtifactURL
	}
	if b.ErrorMessage != nil {
		out.ErrorMessage = *b.ErrorMessage
	}
	return out
}
