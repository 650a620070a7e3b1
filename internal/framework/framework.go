// Package framework classifies a repository's mobile toolchain from shallow
// file-presence signals. Classification is a pure function: it always
// produces a tag and never fails, even on a broken manifest.
package framework

import (
	"encoding/json"

	"gitapp/internal/store"
)

// Signals is the set of file-presence booleans plus the optional raw
// package.json manifest gathered by the repository metadata client.
type Signals struct {
	HasPackageJSON bool
	HasPubspec     bool
	HasBuildGradle bool
	HasExpoConfig  bool
	HasAppJSON     bool

	// PackageJSON is the raw manifest content, nil when absent or unreadable.
	PackageJSON []byte
}

// Detect maps signals to a framework tag. First match wins, in this order:
// pubspec, expo config, expo dependency, react-native dependency,
// app.json+package.json, build.gradle, unknown.
func Detect(sig Signals) store.Framework {
	if sig.HasPubspec {
		return store.FrameworkFlutter
	}
	if sig.HasExpoConfig {
		return store.FrameworkExpo
	}
	if sig.HasPackageJSON && len(sig.PackageJSON) > 0 {
		if fw, ok := detectFromManifest(sig.PackageJSON); ok {
			return fw
		}
	}
	if sig.HasAppJSON && sig.HasPackageJSON {
		return store.FrameworkReactNative
	}
	if sig.HasBuildGradle {
		return store.FrameworkAndroid
	}
	return store.FrameworkUnknown
}

// detectFromManifest inspects the dependency sections of package.json.
// A manifest that fails to parse contributes no signal.
func detectFromManifest(manifest []byte) (store.Framework, bool) {
	var pkg struct {
		Dependencies    map[string]any `json:"dependencies"`
		DevDependencies map[string]any `json:"devDependencies"`
	}
	if err := json.Unmarshal(manifest, &pkg); err != nil {
		return store.FrameworkUnknown, false
	}

	hasDep := func(name string) bool {
		if _, ok := pkg.Dependencies[name]; ok {
			return true
		}
		_, ok := pkg.DevDependencies[name]
		return ok
	}

	if hasDep("expo") {
		return store.FrameworkExpo, true
	}
	if hasDep("react-native") {
		return store.FrameworkReactNative, true
	}
	return store.FrameworkUnknown, false
}
