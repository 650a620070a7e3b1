package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"gitapp/internal/github"
	"gitapp/internal/store"
)

// mockStore is an in-memory Store with injectable failures.
type mockStore struct {
	mu     sync.Mutex
	builds map[string]*store.Build

	createErr error
	listErr   error
	pingErr   error
}

func newMockStore() *mockStore {
	return &mockStore{builds: map[string]*store.Build{}}
}

func (m *mockStore) CreateBuild(_ context.Context, b *store.Build) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.builds[b.ID]; ok {
		return store.ErrAlreadyExists
	}
	clone := *b
	m.builds[b.ID] = &clone
	return nil
}

func (m *mockStore) GetBuildByID(_ context.Context, id string) (*store.Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.builds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *mockStore) ListBuilds(_ context.Context, limit int) ([]*store.Build, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Build
	for _, b := range m.builds {
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockStore) UpdateBuild(_ context.Context, id string, patch store.BuildPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.builds[id]
	if !ok {
		return store.ErrNotFound
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.AndroidBuildID != nil {
		b.AndroidBuildID = patch.AndroidBuildID
	}
	if patch.IOSBuildID != nil {
		b.IOSBuildID = patch.IOSBuildID
	}
	if patch.AndroidArtifactURL != nil {
		b.AndroidArtifactURL = patch.AndroidArtifactURL
	}
	if patch.IOSArtifactURL != nil {
		b.IOSArtifactURL = patch.IOSArtifactURL
	}
	if patch.ErrorMessage != nil {
		b.ErrorMessage = patch.ErrorMessage
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockStore) DeleteBuild(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.builds, id)
	return nil
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

func (m *mockStore) insert(b *store.Build) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *b
	m.builds[b.ID] = &clone
}

// mockAnalyzer returns a canned analysis.
type mockAnalyzer struct {
	analysis *github.Analysis
	lastURL  string
}

func (m *mockAnalyzer) Analyze(_ context.Context, repoURL string) *github.Analysis {
	m.lastURL = repoURL
	return m.analysis
}

// mockRunner records trigger and poll invocations. onPoll, when set, runs
// after each recorded poll so tests can mutate the store the way the real
// runner would.
type mockRunner struct {
	mu        sync.Mutex
	triggered []string
	polled    []store.Platform
	pollIDs   []string
	onPoll    func(platform store.Platform)
}

func (m *mockRunner) Trigger(_ context.Context, buildID string, _ store.Platform, _ store.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggered = append(m.triggered, buildID)
}

func (m *mockRunner) PollStatus(_ context.Context, _, providerBuildID string, platform store.Platform) {
	m.mu.Lock()
	m.polled = append(m.polled, platform)
	m.pollIDs = append(m.pollIDs, providerBuildID)
	m.mu.Unlock()

	if m.onPoll != nil {
		m.onPoll(platform)
	}
}

// mockTasks runs submitted tasks synchronously unless failing.
type mockTasks struct {
	submitErr error
	submitted int
}

func (m *mockTasks) Submit(task func(context.Context)) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	m.submitted++
	task(context.Background())
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validAnalysis() *github.Analysis {
	return &github.Analysis{
		Framework:     store.FrameworkExpo,
		Name:          "acme/app",
		DefaultBranch: "main",
		Valid:         true,
	}
}

func seededBuild(id string) *store.Build {
	now := time.Now().UTC()
	return &store.Build{
		ID:        id,
		RepoURL:   "https://github.com/acme/app",
		RepoName:  "acme/app",
		Framework: store.FrameworkReactNative,
		Platform:  store.PlatformBoth,
		Profile:   store.ProfileProduction,
		Status:    store.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
