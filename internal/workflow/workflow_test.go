package workflow

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"gitapp/internal/store"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name        string
		framework   store.Framework
		platform    store.Platform
		contains    []string
		notContains []string
	}{
		{
			name:        "android only",
			framework:   store.FrameworkReactNative,
			platform:    store.PlatformAndroid,
			contains:    []string{"build-android", "assembleRelease"},
			notContains: []string{"build-ios", "xcodebuild"},
		},
		{
			name:        "ios only",
			framework:   store.FrameworkReactNative,
			platform:    store.PlatformIOS,
			contains:    []string{"build-ios", "xcodebuild"},
			notContains: []string{"build-android", "assembleRelease"},
		},
		{
			name:      "both platforms",
			framework: store.FrameworkReactNative,
			platform:  store.PlatformBoth,
			contains:  []string{"build-android", "build-ios"},
		},
		{
			name:      "flutter emits both jobs",
			framework: store.FrameworkFlutter,
			platform:  store.PlatformBoth,
			contains:  []string{"flutter-action", "flutter build apk", "flutter build ios"},
		},
		{
			name:      "flutter ignores platform argument",
			framework: store.FrameworkFlutter,
			platform:  store.PlatformAndroid,
			contains:  []string{"build-flutter-android", "build-flutter-ios", "--no-codesign"},
		},
		{
			name:      "manual dispatch trigger always present",
			framework: store.FrameworkAndroid,
			platform:  store.PlatformAndroid,
			contains:  []string{"workflow_dispatch", "push"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Generate(tt.framework, tt.platform)

			for _, want := range tt.contains {
				if !strings.Contains(doc, want) {
					t.Errorf("output missing %q:\n%s", want, doc)
				}
			}
			for _, banned := range tt.notContains {
				if strings.Contains(doc, banned) {
					t.Errorf("output must not contain %q:\n%s", banned, doc)
				}
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(store.FrameworkExpo, store.PlatformBoth)
	b := Generate(store.FrameworkExpo, store.PlatformBoth)
	if a != b {
		t.Error("two generations of the same inputs differ")
	}
}

func TestGenerateIsValidYAML(t *testing.T) {
	for _, fw := range []store.Framework{
		store.FrameworkExpo, store.FrameworkReactNative, store.FrameworkFlutter,
		store.FrameworkAndroid, store.FrameworkUnknown,
	} {
		for _, platform := range []store.Platform{
			store.PlatformAndroid, store.PlatformIOS, store.PlatformBoth,
		} {
			doc := Generate(fw, platform)

			var parsed struct {
				Name string         `yaml:"name"`
				Jobs map[string]any `yaml:"jobs"`
			}
			if err := yaml.Unmarshal([]byte(doc), &parsed); err != nil {
				t.Fatalf("Generate(%s, %s) produced invalid YAML: %v\n%s", fw, platform, err, doc)
			}
			if parsed.Name != "Build Mobile App" {
				t.Errorf("Generate(%s, %s) name = %q", fw, platform, parsed.Name)
			}
		}
	}
}
