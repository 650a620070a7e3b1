// Package builder drives build requests through the external provider and
// keeps the build store consistent with what the provider reports. All
// outcomes are reflected by mutating the store; nothing flows back to the
// request that created the build.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitapp/internal/store"
)

// Placeholder artifact locations used by the local simulator.
const (
	simulatedAndroidArtifactURL = "https://expo.dev/artifacts/eas/demo-android.apk"
	simulatedIOSArtifactURL     = "https://expo.dev/artifacts/eas/demo-ios.ipa"
)

const defaultSimulateDelay = 5 * time.Second

// Builder orchestrates the trigger and poll flows for build records.
type Builder struct {
	store         store.BuildStore
	provider      Provider
	log           *slog.Logger
	simulateDelay time.Duration
	tracer        trace.Tracer
}

// New creates a Builder. A nil or unconfigured provider routes every trigger
// through the local simulator; simulateDelay <= 0 applies the default.
func New(s store.BuildStore, p Provider, log *slog.Logger, simulateDelay time.Duration) *Builder {
	if simulateDelay <= 0 {
		simulateDelay = defaultSimulateDelay
	}
	return &Builder{
		store:         s,
		provider:      p,
		log:           log,
		simulateDelay: simulateDelay,
		tracer:        otel.Tracer("gitapp/builder"),
	}
}

// expandPlatforms resolves "both" into its ordered sub-requests:
// Android first, then iOS.
func expandPlatforms(p store.Platform) []store.Platform {
	if p == store.PlatformBoth {
		return []store.Platform{store.PlatformAndroid, store.PlatformIOS}
	}
	return []store.Platform{p}
}

// Trigger submits one provider build per requested platform, sequentially.
// A failed sub-request marks the whole record failed and aborts the
// remaining platforms. Trigger never returns an error: the caller that
// created the record has already been answered, so every outcome lands in
// the store instead.
func (b *Builder) Trigger(ctx context.Context, buildID string, platform store.Platform, profile store.Profile) {
	ctx, span := b.tracer.Start(ctx, "builder.Trigger", trace.WithAttributes(
		attribute.String("build.id", buildID),
		attribute.String("build.platform", string(platform)),
	))
	defer span.End()

	if b.provider == nil || !b.provider.Configured() {
		b.simulate(ctx, buildID, platform)
		return
	}

	for _, p := range expandPlatforms(platform) {
		providerID, err := b.provider.SubmitBuild(ctx, p, profile)
		if err != nil {
			b.recordFailure(ctx, buildID, submitErrorMessage(err))
			return
		}

		building := store.StatusBuilding
		patch := store.BuildPatch{Status: &building}
		if p == store.PlatformAndroid {
			patch.AndroidBuildID = &providerID
		} else {
			patch.IOSBuildID = &providerID
		}

		if err := b.store.UpdateBuild(ctx, buildID, patch); err != nil {
			b.log.Error("failed to record provider build id",
				"build_id", buildID, "platform", p, "error", err)
			return
		}

		b.log.Info("provider build submitted",
			"build_id", buildID, "platform", p, "provider_build_id", providerID)
	}
}

// submitErrorMessage distinguishes a provider rejection from a transport
// failure, mirroring the messages users see on the record.
func submitErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("EAS Build API error: %s", apiErr.Body)
	}
	return fmt.Sprintf("Build trigger failed: %v", err)
}

// PollStatus reconciles one platform sub-build with the provider. It is
// best-effort: transport and provider errors leave the record untouched, and
// a still-running status produces no mutation. A record that is already
// terminal is never patched again, so one settled sub-build cannot be
// overwritten by the outcome of another.
func (b *Builder) PollStatus(ctx context.Context, buildID, providerBuildID string, platform store.Platform) {
	if b.provider == nil || !b.provider.Configured() {
		return
	}

	ctx, span := b.tracer.Start(ctx, "builder.PollStatus", trace.WithAttributes(
		attribute.String("build.id", buildID),
		attribute.String("build.provider_id", providerBuildID),
	))
	defer span.End()

	record, err := b.store.GetBuildByID(ctx, buildID)
	if err != nil {
		b.log.Debug("build fetch before poll failed", "build_id", buildID, "error", err)
		return
	}
	if record.Status.Terminal() {
		return
	}

	pb, err := b.provider.BuildStatus(ctx, providerBuildID)
	if err != nil {
		b.log.Debug("build status poll failed",
			"build_id", buildID, "provider_build_id", providerBuildID, "error", err)
		return
	}

	var patch store.BuildPatch
	switch pb.Status {
	case providerStatusFinished:
		if pb.Artifacts == nil || pb.Artifacts.BuildURL == "" {
			return
		}
		success := store.StatusSuccess
		patch.Status = &success
		if platform == store.PlatformAndroid {
			patch.AndroidArtifactURL = &pb.Artifacts.BuildURL
		} else {
			patch.IOSArtifactURL = &pb.Artifacts.BuildURL
		}
	case providerStatusErrored:
		failed := store.StatusFailed
		patch.Status = &failed
		msg := providerErrorMessage(pb)
		patch.ErrorMessage = &msg
	case providerStatusCancelled:
		cancelled := store.StatusCancelled
		patch.Status = &cancelled
		msg := providerErrorMessage(pb)
		patch.ErrorMessage = &msg
	default:
		// Still running.
		return
	}

	if err := b.store.UpdateBuild(ctx, buildID, patch); err != nil {
		b.log.Error("failed to apply polled status",
			"build_id", buildID, "error", err)
	}
}

func providerErrorMessage(pb *ProviderBuild) string {
	if pb.Err != nil && pb.Err.Message != "" {
		return pb.Err.Message
	}
	return "Build failed"
}

// simulate is the local fallback when no real provider is configured: the
// record goes to building immediately and to success with placeholder
// artifact locations after a fixed delay. It keeps the system exercisable
// without provider credentials.
func (b *Builder) simulate(ctx context.Context, buildID string, platform store.Platform) {
	building := store.StatusBuilding
	if err := b.store.UpdateBuild(ctx, buildID, store.BuildPatch{Status: &building}); err != nil {
		b.log.Error("simulator failed to mark build building", "build_id", buildID, "error", err)
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(b.simulateDelay):
	}

	success := store.StatusSuccess
	patch := store.BuildPatch{Status: &success}
	if platform.Includes(store.PlatformAndroid) {
		url := simulatedAndroidArtifactURL
		patch.AndroidArtifactURL = &url
	}
	if platform.Includes(store.PlatformIOS) {
		url := simulatedIOSArtifactURL
		patch.IOSArtifactURL = &url
	}

	if err := b.store.UpdateBuild(ctx, buildID, patch); err != nil {
		b.log.Error("simulator failed to mark build successful", "build_id", buildID, "error", err)
	}
}

// recordFailure marks the whole record failed with a human-readable message.
func (b *Builder) recordFailure(ctx context.Context, buildID, message string) {
	failed := store.StatusFailed
	patch := store.BuildPatch{Status: &failed, ErrorMessage: &message}
	if err := b.store.UpdateBuild(ctx, buildID, patch); err != nil {
		b.log.Error("failed to record build failure",
			"build_id", buildID, "failure", message, "error", err)
		return
	}
	b.log.Warn("build failed", "build_id", buildID, "error", message)
}
