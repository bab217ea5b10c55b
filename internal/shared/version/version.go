// Package version reports the build version, set at link time with
// -ldflags "-X github.com/Picoli-Igor/Dash2/internal/shared/version.Version=1.2.0".
package version

import (
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Current returns the canonical form of Version, or Version unchanged when
// it is not semver (local builds report "dev").
func Current() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		return Version
	}
	return semver.Canonical(v)
}

// IsRelease reports whether the binary was built from a release tag.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

// String is the one-line form printed by --version.
func String() string {
	return Current() + " (" + Commit + ", " + runtime.Version() + ")"
}
