package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gitapp/internal/store"
)

const defaultEASAPIURL = "https://api.expo.dev/v2"

// Provider-reported terminal statuses.
const (
	providerStatusFinished  = "FINISHED"
	providerStatusErrored   = "ERRORED"
	providerStatusCancelled = "CANCELLED"
)

// ProviderBuild is the slice of the provider's build resource this system
// depends on. Anything else on the wire is ignored.
type ProviderBuild struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Artifacts *struct {
		BuildURL string `json:"buildUrl"`
	} `json:"artifacts,omitempty"`
	Err *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Provider is the external asynchronous build service.
type Provider interface {
	// Configured reports whether real credentials and app identity are
	// present. When false, the trigger falls back to the local simulator.
	Configured() bool

	// SubmitBuild requests a build for one concrete platform and returns the
	// provider-assigned build identifier.
	SubmitBuild(ctx context.Context, platform store.Platform, profile store.Profile) (string, error)

	// BuildStatus fetches the current state of a previously submitted build.
	BuildStatus(ctx context.Context, providerBuildID string) (*ProviderBuild, error)
}

// APIError is a non-success response from the provider API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Body)
}

// EASClient talks to the Expo Application Services build API.
type EASClient struct {
	baseURL     string
	token       string
	accountName string
	appSlug     string
	httpClient  *http.Client
}

// NewEASClient creates a provider client. An empty baseURL selects the
// production EAS endpoint. Empty credentials produce an unconfigured client.
func NewEASClient(baseURL, token, accountName, appSlug string) *EASClient {
	if baseURL == "" {
		baseURL = defaultEASAPIURL
	}
	return &EASClient{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		token:       token,
		accountName: accountName,
		appSlug:     appSlug,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether token and app identity are all present.
func (c *EASClient) Configured() bool {
	return c.token != "" && c.accountName != "" && c.appSlug != ""
}

// SubmitBuild posts a build request for a single platform.
func (c *EASClient) SubmitBuild(ctx context.Context, platform store.Platform, profile store.Profile) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"appIdentifier": fmt.Sprintf("@%s/%s", c.accountName, c.appSlug),
		"platform":      string(platform),
		"buildProfile":  string(profile),
		"gitCommitHash": "HEAD",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/builds", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var build ProviderBuild
	if err := json.Unmarshal(body, &build); err != nil {
		return "", fmt.Errorf("failed to parse provider response: %w", err)
	}
	if build.ID == "" {
		return "", fmt.Errorf("provider response missing build id")
	}
	return build.ID, nil
}

// BuildStatus queries the provider for the state of a submitted build.
func (c *EASClient) BuildStatus(ctx context.Context, providerBuildID string) (*ProviderBuild, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/builds/"+providerBuildID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var build ProviderBuild
	if err := json.Unmarshal(body, &build); err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}
	return &build, nil
}

func (c *EASClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}
