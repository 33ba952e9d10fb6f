package main

// Build-time variables (set via ldflags):
//
//	go build -ldflags "-X main.Version=1.0.0 \
//	                   -X main.Commit=$(git rev-parse --short HEAD) \
//	                   -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version (e.g., "1.0.0")
	Version = "dev"

	// Commit is the git commit hash (short form)
	Commit = "unknown"

	// BuildTime is the UTC build timestamp (ISO 8601)
	BuildTime = "unknown"
)

// versionString returns a formatted version string.
func versionString() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
