// Package version resolves the build version reported by the CLI and API.
package version

import "os"

// Version is the release string, overridable at build time via
// -ldflags "-X .../internal/version.Version=x.y.z".
var Version = "0.3.0"

// Resolve returns the effective version, honoring the WEBEXP_VERSION
// environment override used by packaging scripts.
func Resolve() string {
	if v := os.Getenv("WEBEXP_VERSION"); v != "" {
		return v
	}
	return Version
}
