// Package workflow synthesizes a GitHub Actions pipeline definition for a
// build. Generation is a pure function of framework and platform: no I/O,
// no clock, no randomness.
package workflow

import (
	"strings"
	"text/template"

	"gitapp/internal/store"
)

// Filename is the suggested name for the generated workflow file.
const Filename = "build-mobile.yml"

var documentTmpl = template.Must(template.New("workflow").Parse(`name: Build Mobile App

on:
  push:
    branches: [ main, master ]
  workflow_dispatch:

jobs:{{range .Jobs}}{{.}}{{end}}
`))

const androidJob = `
  build-android:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-java@v4
        with:
          java-version: '17'
          distribution: 'temurin'
      - uses: gradle/gradle-build-action@v3
      - name: Build Android APK
        run: |
          cd android
          ./gradlew assembleRelease
      - uses: actions/upload-artifact@v4
        with:
          name: android-apk
          path: android/app/build/outputs/apk/release/*.apk`

const iosJob = `
  build-ios:
    runs-on: macos-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-node@v4
        with:
          node-version: '20'
      - run: npm ci
      - run: npx pod-install
      - name: Build iOS IPA
        run: |
          xcodebuild -workspace ios/*.xcworkspace \
            -scheme "Release" \
            -sdk iphoneos \
            -configuration Release \
            archive -archivePath build/app.xcarchive
          xcodebuild -exportArchive \
            -archivePath build/app.xcarchive \
            -exportOptionsPlist ios/exportOptions.plist \
            -exportPath build/
      - uses: actions/upload-artifact@v4
        with:
          name: ios-ipa
          path: build/*.ipa`

const flutterAndroidJob = `
  build-flutter-android:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: subosito/flutter-action@v2
        with:
          flutter-version: 'stable'
          channel: 'stable'
      - run: flutter pub get
      - run: flutter build apk --release
      - uses: actions/upload-artifact@v4
        with:
          name: flutter-android-apk
          path: build/app/outputs/flutter-apk/app-release.apk`

const flutterIOSJob = `
  build-flutter-ios:
    runs-on: macos-latest
    steps:
      - uses: actions/checkout@v4
      - uses: subosito/flutter-action@v2
        with:
          flutter-version: 'stable'
      - run: flutter pub get
      - run: flutter build ios --release --no-codesign
      - uses: actions/upload-artifact@v4
        with:
          name: flutter-ios
          path: build/ios/iphoneos/Runner.app`

// Generate returns the workflow document for the given framework and
// platform. A platform that was not requested appears nowhere in the output.
// Flutter emits both platform jobs regardless of the platform argument.
func Generate(fw store.Framework, platform store.Platform) string {
	var jobs []string
	if fw == store.FrameworkFlutter {
		jobs = []string{flutterAndroidJob, flutterIOSJob}
	} else {
		if platform.Includes(store.PlatformAndroid) {
			jobs = append(jobs, androidJob)
		}
		if platform.Includes(store.PlatformIOS) {
			jobs = append(jobs, iosJob)
		}
	}

	var out strings.Builder
	// The template is static and the data is a string slice; this cannot fail.
	_ = documentTmpl.Execute(&out, struct{ Jobs []string }{Jobs: jobs})
	return out.String()
}
