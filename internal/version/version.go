// Package version carries build identification injected at link time:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.0 -X .../internal/version.GitSHA=$(git rev-parse --short HEAD)"
package version

var (
	// Version is the release version of the monitor binary.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)
