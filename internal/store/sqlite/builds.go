package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitapp/internal/store"
)

const defaultListLimit = 20

const buildColumns = `id, repo_url, repo_name, framework, platform, profile, status,
	android_build_id, ios_build_id, android_artifact_url, ios_artifact_url,
	error_message, created_at, updated_at`

// CreateBuild inserts a new build row.
func (s *Store) CreateBuild(ctx context.Context, build *store.Build) error {
	query := `
		INSERT INTO builds (` + buildColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		build.ID,
		build.RepoURL,
		build.RepoName,
		build.Framework,
		build.Platform,
		build.Profile,
		build.Status,
		build.AndroidBuildID,
		build.IOSBuildID,
		build.AndroidArtifactURL,
		build.IOSArtifactURL,
		build.ErrorMessage,
		build.CreatedAt.UTC().Format(timeLayout),
		build.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert build: %w", err)
	}
	return nil
}

// GetBuildByID returns a build by its id, or store.ErrNotFound.
func (s *Store) GetBuildByID(ctx context.Context, id string) (*store.Build, error) {
	query := `SELECT ` + buildColumns + ` FROM builds WHERE id = ?`

	build, err := scanBuild(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch build: %w", err)
	}
	return build, nil
}

// ListBuilds returns up to limit builds ordered by creation time, newest first.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]*store.Build, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()

	var builds []*store.Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		builds = append(builds, build)
	}
	return builds, rows.Err()
}

// UpdateBuild merges the patch into the stored row. Only fields mentioned in
// the patch are written; updated_at is stamped on every mentioning call, and
// a patch mentioning nothing is a no-op. The whole merge is one UPDATE
// statement, so readers never observe a partial write.
func (s *Store) UpdateBuild(ctx context.Context, id string, patch store.BuildPatch) error {
	if patch.IsZero() {
		return nil
	}

	assignments := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(timeLayout)}

	if patch.Status != nil {
		assignments = append(assignments, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.AndroidBuildID != nil {
		assignments = append(assignments, "android_build_id = ?")
		args = append(args, *patch.AndroidBuildID)
	}
	if patch.IOSBuildID != nil {
		assignments = append(assignments, "ios_build_id = ?")
		args = append(args, *patch.IOSBuildID)
	}
	if patch.AndroidArtifactURL != nil {
		assignments = append(assignments, "android_artifact_url = ?")
		args = append(args, *patch.AndroidArtifactURL)
	}
	if patch.IOSArtifactURL != nil {
		assignments = append(assignments, "ios_artifact_url = ?")
		args = append(args, *patch.IOSArtifactURL)
	}
	if patch.ErrorMessage != nil {
		assignments = append(assignments, "error_message = ?")
		args = append(args, *patch.ErrorMessage)
	}

	query := "UPDATE builds SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update build: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteBuild removes a build row. Deleting an absent id is a no-op.
func (s *Store) DeleteBuild(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM builds WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete build: %w", err)
	}
	return nil
}

// CountActive returns the number of builds not yet in a terminal state.
// Used by the in-flight builds gauge.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM builds WHERE status IN (?, ?)",
		store.StatusQueued, store.StatusBuilding,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active builds: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner) (*store.Build, error) {
	var (
		build              store.Build
		androidBuildID     sql.NullString
		iosBuildID         sql.NullString
		androidArtifactURL sql.NullString
		iosArtifactURL     sql.NullString
		errorMessage       sql.NullString
		createdAt          string
		updatedAt          string
	)

	if err := row.Scan(
		&build.ID, &build.RepoURL, &build.RepoName,
		&build.Framework, &build.Platform, &build.Profile, &build.Status,
		&androidBuildID, &iosBuildID, &androidArtifactURL, &iosArtifactURL,
		&errorMessage, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	build.AndroidBuildID = nullableString(androidBuildID)
	build.IOSBuildID = nullableString(iosBuildID)
	build.AndroidArtifactURL = nullableString(androidArtifactURL)
	build.IOSArtifactURL = nullableString(iosArtifactURL)
	build.ErrorMessage = nullableString(errorMessage)

	var err error
	if build.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if build.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return &build, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
