// Package github is the repository metadata client: it resolves repository
// info and probes for the handful of files the framework classifier needs.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"gitapp/internal/framework"
	"gitapp/internal/store"
)

const defaultAPIURL = "https://api.github.com"

// repoURLPattern accepts https, ssh and bare github.com repository references.
var repoURLPattern = regexp.MustCompile(`github\.com[/:]([^/]+)/([^/\s]+)`)

// ParseRepoURL extracts owner and repository name from a GitHub URL.
// A trailing ".git" suffix is stripped.
func ParseRepoURL(raw string) (owner, repo string, ok bool) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(raw), ".git")
	match := repoURLPattern.FindStringSubmatch(cleaned)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}

// Client talks to the GitHub REST API. The token is optional; without one
// requests count against the anonymous rate limit.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a metadata client. An empty baseURL selects api.github.com.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Analysis is the result of inspecting a repository. It is ephemeral: the
// classifier consumes it once and only framework and name are persisted.
type Analysis struct {
	Framework      store.Framework `json:"framework"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Stars          int             `json:"stars"`
	Language       string          `json:"language"`
	HasPackageJSON bool            `json:"hasPackageJson"`
	HasPubspec     bool            `json:"hasPubspec"`
	HasBuildGradle bool            `json:"hasBuildGradle"`
	HasExpoConfig  bool            `json:"hasExpoConfig"`
	HasAppJSON     bool            `json:"hasAppJson"`
	DefaultBranch  string          `json:"defaultBranch"`
	Valid          bool            `json:"isValid"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
}

// Analyze inspects the repository behind repoURL. It never returns an error:
// every failure is folded into an invalid Analysis with a human-readable
// message, so the caller can surface it directly.
func (c *Client) Analyze(ctx context.Context, repoURL string) *Analysis {
	owner, repo, ok := ParseRepoURL(repoURL)
	if !ok {
		return &Analysis{
			Framework:     store.FrameworkUnknown,
			DefaultBranch: "main",
			ErrorMessage:  "Invalid GitHub URL. Please provide a valid GitHub repository URL.",
		}
	}

	invalid := func(msg string) *Analysis {
		return &Analysis{
			Framework:     store.FrameworkUnknown,
			Name:          owner + "/" + repo,
			DefaultBranch: "main",
			ErrorMessage:  msg,
		}
	}

	info, status, err := c.repoInfo(ctx, owner, repo)
	if err != nil {
		return invalid(fmt.Sprintf("Failed to analyze repository: %v", err))
	}
	if info == nil {
		switch status {
		case http.StatusNotFound:
			return invalid("Repository not found. Please check the URL.")
		case http.StatusForbidden:
			return invalid("Rate limited or access denied. Please provide a GITHUB_TOKEN.")
		default:
			return invalid(fmt.Sprintf("GitHub API error: %d", status))
		}
	}

	sig := c.probeSignals(ctx, owner, repo)

	analysis := &Analysis{
		Framework:      framework.Detect(sig),
		Name:           info.FullName,
		Stars:          info.Stars,
		HasPackageJSON: sig.HasPackageJSON,
		HasPubspec:     sig.HasPubspec,
		HasBuildGradle: sig.HasBuildGradle,
		HasExpoConfig:  sig.HasExpoConfig,
		HasAppJSON:     sig.HasAppJSON,
		DefaultBranch:  "main",
		Valid:          true,
	}
	if info.Description != nil {
		analysis.Description = *info.Description
	}
	if info.Language != nil {
		analysis.Language = *info.Language
	}
	if info.DefaultBranch != "" {
		analysis.DefaultBranch = info.DefaultBranch
	}
	return analysis
}

// probeSignals checks for each framework marker file. Probes run
// concurrently; probe failures read as "file absent".
func (c *Client) probeSignals(ctx context.Context, owner, repo string) framework.Signals {
	var sig framework.Signals
	var wg sync.WaitGroup

	probe := func(dst *bool, paths ...string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range paths {
				if c.fileExists(ctx, owner, repo, p) {
					*dst = true
					return
				}
			}
		}()
	}

	probe(&sig.HasPackageJSON, "package.json")
	probe(&sig.HasPubspec, "pubspec.yaml")
	probe(&sig.HasBuildGradle, "android/build.gradle")
	probe(&sig.HasExpoConfig, "app.config.ts", "app.config.js")
	probe(&sig.HasAppJSON, "app.json")
	wg.Wait()

	if sig.HasPackageJSON {
		sig.PackageJSON = c.fileContent(ctx, owner, repo, "package.json")
	}
	return sig
}

type repoInfo struct {
	FullName      string  `json:"full_name"`
	Description   *string `json:"description"`
	Stars         int     `json:"stargazers_count"`
	Language      *string `json:"language"`
	DefaultBranch string  `json:"default_branch"`
}

// repoInfo fetches repository metadata. A nil info with a non-zero status
// means GitHub answered with that status; an error means transport failure.
func (c *Client) repoInfo(ctx context.Context, owner, repo string) (*repoInfo, int, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var info repoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, 0, fmt.Errorf("failed to decode repository metadata: %w", err)
	}
	return &info, resp.StatusCode, nil
}

// fileExists reports whether path exists in the repository's default branch.
func (c *Client) fileExists(ctx context.Context, owner, repo, path string) bool {
	resp, err := c.get(ctx, fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, path))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// fileContent fetches and decodes the raw content of path, or nil when the
// file is missing or unreadable.
func (c *Client) fileContent(ctx context.Context, owner, repo, path string) []byte {
	resp, err := c.get(ctx, fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, path))
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}
	if payload.Encoding != "base64" || payload.Content == "" {
		return nil
	}

	// GitHub wraps base64 content with newlines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return nil
	}
	return raw
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "gitapp/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}
