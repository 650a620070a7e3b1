package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gitapp/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(context.Background(), filepath.Join(t.TempDir(), "builds.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeBuild(id string, createdAt time.Time) *store.Build {
	return &store.Build{
		ID:        id,
		RepoURL:   "https://github.com/owner/repo",
		RepoName:  "owner/repo",
		Framework: store.FrameworkExpo,
		Platform:  store.PlatformBoth,
		Profile:   store.ProfileProduction,
		Status:    store.StatusQueued,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCreateAndGetBuild(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	build := makeBuild("build-1", time.Now().UTC())
	if err := s.CreateBuild(ctx, build); err != nil {
		t.Fatalf("CreateBuild failed: %v", err)
	}

	found, err := s.GetBuildByID(ctx, "build-1")
	if err != nil {
		t.Fatalf("GetBuildByID failed: %v", err)
	}

	if found.ID != build.ID {
		t.Errorf("got id %q, want %q", found.ID, build.ID)
	}
	if found.RepoName != "owner/repo" {
		t.Errorf("got repo name %q, want %q", found.RepoName, "owner/repo")
	}
	if found.Framework != store.FrameworkExpo {
		t.Errorf("got framework %q, want %q", found.Framework, store.FrameworkExpo)
	}
	if found.Status != store.StatusQueued {
		t.Errorf("got status %q, want %q", found.Status, store.StatusQueued)
	}
	if found.AndroidBuildID != nil {
		t.Errorf("expected nil android build id, got %q", *found.AndroidBuildID)
	}
	if !found.CreatedAt.Equal(build.CreatedAt) {
		t.Errorf("got created_at %v, want %v", found.CreatedAt, build.CreatedAt)
	}
}

func TestCreateBuildDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateBuild(ctx, makeBuild("dup", time.Now().UTC())); err != nil {
		t.Fatalf("CreateBuild failed: %v", err)
	}
	err := s.CreateBuild(ctx, makeBuild("dup", time.Now().UTC()))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("got %v, want ErrAlreadyExists", err)
	}
}

func TestGetBuildNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBuildByID(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListBuildsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"first", "second", "third"} {
		b := makeBuild(id, base.Add(time.Duration(i)*time.Second))
		if err := s.CreateBuild(ctx, b); err != nil {
			t.Fatalf("CreateBuild(%s) failed: %v", id, err)
		}
	}

	builds, err := s.ListBuilds(ctx, 3)
	if err != nil {
		t.Fatalf("ListBuilds failed: %v", err)
	}
	if len(builds) != 3 {
		t.Fatalf("got %d builds, want 3", len(builds))
	}

	// Newest first.
	want := []string{"third", "second", "first"}
	for i, b := range builds {
		if b.ID != want[i] {
			t.Errorf("builds[%d] = %q, want %q", i, b.ID, want[i])
		}
	}

	limited, err := s.ListBuilds(ctx, 2)
	if err != nil {
		t.Fatalf("ListBuilds failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d builds, want 2", len(limited))
	}
}

func TestUpdateBuildMergesPatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Now().UTC().Add(-time.Minute)
	if err := s.CreateBuild(ctx, makeBuild("patched", created)); err != nil {
		t.Fatalf("CreateBuild failed: %v", err)
	}

	status := store.StatusSuccess
	artifactURL := "https://example.com/app.apk"
	patch := store.BuildPatch{
		Status:             &status,
		AndroidArtifactURL: &artifactURL,
	}
	if err := s.UpdateBuild(ctx, "patched", patch); err != nil {
		t.Fatalf("UpdateBuild failed: %v", err)
	}

	updated, err := s.GetBuildByID(ctx, "patched")
	if err != nil {
		t.Fatalf("GetBuildByID failed: %v", err)
	}

	if updated.Status != store.StatusSuccess {
		t.Errorf("got status %q, want %q", updated.Status, store.StatusSuccess)
	}
	if updated.AndroidArtifactURL == nil || *updated.AndroidArtifactURL != artifactURL {
		t.Errorf("android artifact url not applied: %v", updated.AndroidArtifactURL)
	}

	// Unmentioned fields survive the merge.
	if updated.RepoURL != "https://github.com/owner/repo" {
		t.Errorf("repo url clobbered: %q", updated.RepoURL)
	}
	if updated.IOSArtifactURL != nil {
		t.Errorf("ios artifact url clobbered: %v", *updated.IOSArtifactURL)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Errorf("created_at changed: %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(created) {
		t.Errorf("updated_at not refreshed: %v", updated.UpdatedAt)
	}
}

func TestUpdateBuildZeroPatchIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Now().UTC().Add(-time.Minute)
	if err := s.CreateBuild(ctx, makeBuild("untouched", created)); err != nil {
		t.Fatalf("CreateBuild failed: %v", err)
	}

	if err := s.UpdateBuild(ctx, "untouched", store.BuildPatch{}); err != nil {
		t.Fatalf("UpdateBuild failed: %v", err)
	}
	// A zero patch succeeds for any id, even a missing one.
	if err := s.UpdateBuild(ctx, "missing", store.BuildPatch{}); err != nil {
		t.Fatalf("UpdateBuild for missing id failed: %v", err)
	}

	found, err := s.GetBuildByID(ctx, "untouched")
	if err != nil {
		t.Fatalf("GetBuildByID failed: %v", err)
	}
	if !found.UpdatedAt.Equal(created) {
		t.Errorf("updated_at stamped by zero patch: %v", found.UpdatedAt)
	}
}

func TestUpdateBuildNotFound(t *testing.T) {
	s := newTestStore(t)

	status := store.StatusFailed
	err := s.UpdateBuild(context.Background(), "missing", store.BuildPatch{Status: &status})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteBuildIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateBuild(ctx, makeBuild("doomed", time.Now().UTC())); err != nil {
		t.Fatalf("CreateBuild failed: %v", err)
	}

	if err := s.DeleteBuild(ctx, "doomed"); err != nil {
		t.Fatalf("first DeleteBuild failed: %v", err)
	}
	if err := s.DeleteBuild(ctx, "doomed"); err != nil {
		t.Fatalf("second DeleteBuild failed: %v", err)
	}

	if _, err := s.GetBuildByID(ctx, "doomed"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound after delete", err)
	}
}

func TestCountActive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	queued := makeBuild("q", now)
	building := makeBuild("b", now.Add(time.Second))
	building.Status = store.StatusBuilding
	done := makeBuild("d", now.Add(2*time.Second))
	done.Status = store.StatusSuccess

	for _, b := range []*store.Build{queued, building, done} {
		if err := s.CreateBuild(ctx, b); err != nil {
			t.Fatalf("CreateBuild failed: %v", err)
		}
	}

	count, err := s.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive failed: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d active builds, want 2", count)
	}
}

func TestStatusSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "builds.db")

	s, err := New(ctx, path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.CreateBuild(ctx, makeBuild("durable", time.Now().UTC())); err != nil {
		t.Fatalf("CreateBuild failed: %v", err)
	}
	status := store.StatusBuilding
	if err := s.UpdateBuild(ctx, "durable", store.BuildPatch{Status: &status}); err != nil {
		t.Fatalf("UpdateBuild failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := New(ctx, path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	found, err := reopened.GetBuildByID(ctx, "durable")
	if err != nil {
		t.Fatalf("GetBuildByID after reopen failed: %v", err)
	}
	if found.Status != store.StatusBuilding {
		t.Errorf("got status %q after reopen, want %q", found.Status, store.StatusBuilding)
	}
}
