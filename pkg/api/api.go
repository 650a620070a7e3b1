// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the server.
package api

import "time"

// CreateBuildRequest is the request body for submitting a new build.
type CreateBuildRequest struct {
	RepoURL  string `json:"repoUrl"`
	Platform string `json:"platform"`
	Profile  string `json:"profile"`
}

// Build represents a tracked build in API responses.
type Build struct {
	ID                 string    `json:"id"`
	RepoURL            string    `json:"repoUrl"`
	RepoName           string    `json:"repoName"`
	Framework          string    `json:"framework"`
	Platform           string    `json:"platform"`
	Profile            string    `json:"profile"`
	Status             string    `json:"status"`
	AndroidBuildID     string    `json:"androidBuildId,omitempty"`
	IOSBuildID         string    `json:"iosBuildId,omitempty"`
	AndroidArtifactURL string    `json:"androidArtifactUrl,omitempty"`
	IOSArtifactURL     string    `json:"iosArtifactUrl,omitempty"`
	ErrorMessage       string    `json:"errorMessage,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AnalyzeRequest is the request body for analyzing a repository without
// creating a build.
type AnalyzeRequest struct {
	RepoURL string `json:"repoUrl"`
}

// AnalyzeResponse is the analysis result for a repository. An invalid
// repository still answers 200 with Valid=false and an error message.
type AnalyzeResponse struct {
	Framework      string `json:"framework"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Stars          int    `json:"stars"`
	Language       string `json:"language"`
	HasPackageJSON bool   `json:"hasPackageJson"`
	HasPubspec     bool   `json:"hasPubspec"`
	HasBuildGradle bool   `json:"hasBuildGradle"`
	HasExpoConfig  bool   `json:"hasExpoConfig"`
	HasAppJSON     bool   `json:"hasAppJson"`
	DefaultBranch  string `json:"defaultBranch"`
	Valid          bool   `json:"isValid"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

// DeleteBuildResponse is the response body after deleting a build.
// Delete is idempotent, so Success is true even when the id was already gone.
type DeleteBuildResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
