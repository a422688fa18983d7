// Package version reports build information for streamkit binaries.
//
// Values are set at compile time via -ldflags and fall back to the VCS
// stamp the Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/streamkit/version.Version=1.0.0" ./cmd/streamctl
package version
