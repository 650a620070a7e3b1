package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a build id does not exist.
// Absence is a normal outcome for lookups, not an exceptional one.
var ErrNotFound = errors.New("build not found")

// ErrAlreadyExists is returned when creating a build with a taken id.
var ErrAlreadyExists = errors.New("build already exists")

// BuildPatch names exactly which fields an update carries. A nil field is
// "not mentioned" and must not clobber the stored value; a non-nil field
// replaces it. UpdatedAt is always stamped by the store itself.
type BuildPatch struct {
	Status             *BuildStatus
	AndroidBuildID     *string
	IOSBuildID         *string
	AndroidArtifactURL *string
	IOSArtifactURL     *string
	ErrorMessage       *string
}

// IsZero reports whether the patch mentions no fields.
func (p BuildPatch) IsZero() bool {
	return p.Status == nil && p.AndroidBuildID == nil && p.IOSBuildID == nil &&
		p.AndroidArtifactURL == nil && p.IOSArtifactURL == nil && p.ErrorMessage == nil
}

// BuildStore handles persistence of build records.
type BuildStore interface {
	// CreateBuild inserts a new build. Fails with ErrAlreadyExists if the
	// id is taken.
	CreateBuild(ctx context.Context, build *Build) error

	// GetBuildByID returns a build by its id, or ErrNotFound.
	GetBuildByID(ctx context.Context, id string) (*Build, error)

	// ListBuilds returns up to limit builds, most recent first.
	// A non-positive limit applies the default of 20.
	ListBuilds(ctx context.Context, limit int) ([]*Build, error)

	// UpdateBuild merges the patch into the existing record and stamps
	// UpdatedAt. A zero patch is a no-op; otherwise a missing id fails with
	// ErrNotFound. The merge is applied as a single statement, so no partial
	// write is ever visible.
	UpdateBuild(ctx context.Context, id string, patch BuildPatch) error

	// DeleteBuild removes a build. Deleting an absent id is a no-op.
	DeleteBuild(ctx context.Context, id string) error
}
