// Package store contains the database layer for gitapp.
package store

import "time"

// Framework identifies the mobile toolchain a repository is built with.
type Framework string

const (
	FrameworkExpo        Framework = "expo"
	FrameworkReactNative Framework = "react-native"
	FrameworkFlutter     Framework = "flutter"
	FrameworkAndroid     Framework = "android"
	FrameworkUnknown     Framework = "unknown"
)

// Platform is the build target requested by the user.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformBoth    Platform = "both"
)

// Valid reports whether p is one of the accepted platform values.
func (p Platform) Valid() bool {
	return p == PlatformAndroid || p == PlatformIOS || p == PlatformBoth
}

// Includes reports whether the requested platform covers the given target.
// The target must be a concrete platform, never "both".
func (p Platform) Includes(target Platform) bool {
	return p == target || p == PlatformBoth
}

// Profile is the named build configuration forwarded to the provider.
type Profile string

const (
	ProfileDevelopment Profile = "development"
	ProfilePreview     Profile = "preview"
	ProfileProduction  Profile = "production"
)

// Valid reports whether p is one of the accepted profile values.
func (p Profile) Valid() bool {
	return p == ProfileDevelopment || p == ProfilePreview || p == ProfileProduction
}

// BuildStatus represents the state of a build.
// Transitions only move forward: queued -> building -> terminal.
type BuildStatus string

const (
	StatusQueued    BuildStatus = "queued"
	StatusBuilding  BuildStatus = "building"
	StatusSuccess   BuildStatus = "success"
	StatusFailed    BuildStatus = "failed"
	StatusCancelled BuildStatus = "cancelled"
)

// Terminal reports whether no further automatic transition occurs from s.
func (s BuildStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusCancelled
}

// Build is the unit of work tracked by the system. ID, RepoURL, Framework,
// Platform, Profile and CreatedAt are immutable after creation; everything
// else is written by the trigger/poll flows through UpdateBuild.
type Build struct {
	ID                 string
	RepoURL            string
	RepoName           string
	Framework          Framework
	Platform           Platform
	Profile            Profile
	Status             BuildStatus
	AndroidBuildID     *string
	IOSBuildID         *string
	AndroidArtifactURL *string
	IOSArtifactURL     *string
	ErrorMessage       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
