package version

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Service identity reported by the health endpoint. These are part of the
// public contract and do not follow the build version.
const (
	ServiceName    = "dashboard-lambda-rds"
	ServiceVersion = "3.0.0"
)

// Info returns full version string with build metadata.
func Info() string {
	return fmt.Sprintf("dashboard %s (api: %s, commit: %s, built: %s, %s/%s)",
		Version, ServiceVersion, GitCommit, BuildTime, runtime.GOOS, runtime.GOARCH)
}

// Short returns the version string only.
func Short() string {
	return Version
}
