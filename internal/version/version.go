// Package version exposes the build version of purse.
package version

import "runtime/debug"

// Version is injected at build time:
//
//	go build -ldflags "-X github.com/five82/purse/internal/version.Version=1.2.3" ./cmd/purse
var Version = "dev"

// String returns the injected version, the module version recorded in the
// binary's build info, or "dev" for local builds.
func String() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}
