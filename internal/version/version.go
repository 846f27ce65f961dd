// Package version provides centralized version information for coderef.
package version

import (
	goversion "github.com/caarlos0/go-version"
)

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X coderef/internal/version.Version=1.0.0 -X coderef/internal/version.Commit=abc123"
var (
	// Version is the semantic version of coderef
	Version = "0.4.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"

	// TreeState is "clean" or "dirty" (set at build time)
	TreeState = ""

	// BuiltBy names the build pipeline (set at build time)
	BuiltBy = ""
)

const (
	appName        = "coderef"
	appDescription = "Parse, normalize and catalog documentation code references"
	appWebsite     = ""
)

// Info returns a short version string
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Get returns the full build information. Values stamped with ldflags win
// over what the Go toolchain recorded in the binary.
func Get() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(appName, appDescription, appWebsite),
		func(i *goversion.Info) {
			i.GitVersion = Version
			if Commit != "unknown" && Commit != "" {
				i.GitCommit = Commit
			}
			if BuildDate != "unknown" && BuildDate != "" {
				i.BuildDate = BuildDate
			}
			if TreeState != "" {
				i.GitTreeState = TreeState
			}
			if BuiltBy != "" {
				i.BuiltBy = BuiltBy
			}
		},
	)
}

// Full returns complete version information
func Full() string {
	return Get().String()
}
