package cli

import (
	"context"
	"os"

	"github.com/matzehuels/railpath/pkg/buildinfo"
)

// SetVersion sets the version information displayed by --version.
// Empty values leave the ldflags defaults in place.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2026-10-19T14:32:01Z")
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the railpath CLI with logs on stderr and returns an error
// if any command fails.
//
// Logging:
//   - Default: info level
//   - With --verbose (-v): debug level, plus search, replay, render and
//     HTTP hook events
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
