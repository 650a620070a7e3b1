package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"gitapp/pkg/api"
	"io"
	"net/http"
	"time"
)

// BuildClient handles API calls to the gitapp server.
type BuildClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewBuildClient creates a new client with the given base URL.
func NewBuildClient(baseURL string) *BuildClient {
	return &BuildClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

func apiMessage(body []byte) string {
	var er api.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return string(body)
}

// CreateBuild sends POST /api/builds to submit a new build.
func (c *BuildClient) CreateBuild(req api.CreateBuildRequest) (*api.Build, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/builds", c.BaseURL), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Add("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(respBody)}
	}

	var result api.Build
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}

// GetBuild sends GET /api/builds/{id} to retrieve build details.
func (c *BuildClient) GetBuild(buildID string) (*api.Build, error) {
	httpReq, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/builds/%s", c.BaseURL, buildID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(respBody)}
	}

	var result api.Build
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}

// PollBuild sends POST /api/builds/{id}/poll to refresh the build from the
// provider and returns the refreshed record.
func (c *BuildClient) PollBuild(buildID string) (*api.Build, error) {
	httpReq, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/builds/%s/poll", c.BaseURL, buildID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(respBody)}
	}

	var result api.Build
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}

// ListBuilds sends GET /api/builds to retrieve recent builds.
func (c *BuildClient) ListBuilds(limit int) ([]api.Build, error) {
	endpoint := fmt.Sprintf("%s/api/builds", c.BaseURL)
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	httpReq, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(respBody)}
	}

	var result []api.Build
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

// DeleteBuild sends DELETE /api/builds/{id}.
func (c *BuildClient) DeleteBuild(buildID string) error {
	httpReq, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/builds/%s", c.BaseURL, buildID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: apiMessage(respBody)}
	}

	return nil
}

// Analyze sends POST /api/analyze to classify a repository.
func (c *BuildClient) Analyze(repoURL string) (*api.AnalyzeResponse, error) {
	bodyBytes, err := json.Marshal(api.AnalyzeRequest{RepoURL: repoURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/analyze", c.BaseURL), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Add("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(respBody)}
	}

	var result api.AnalyzeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}

// GetWorkflow sends GET /api/builds/{id}/workflow and returns the document.
func (c *BuildClient) GetWorkflow(buildID string) (string, error) {
	httpReq, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/builds/%s/workflow", c.BaseURL, buildID), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: apiMessage(respBody)}
	}

	return string(respBody), nil
}
