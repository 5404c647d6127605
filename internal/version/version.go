// Package version exposes the build identity of the paperlens binary.
// Release builds stamp these via -ldflags, e.g.:
//
//	-X github.com/paperlens/paperlens-go/internal/version.Version=v1.2.3
//	-X github.com/paperlens/paperlens-go/internal/version.Commit=abc1234
//	-X github.com/paperlens/paperlens-go/internal/version.BuildDate=2026-01-01
//
// Unstamped builds (go run, plain go build) report the defaults below.
package version

// Version is the semantic version, "dev" when unstamped.
var Version = "dev"

// Commit is the short git SHA the binary was built from.
var Commit = "unknown"

// BuildDate is the UTC build date in RFC3339.
var BuildDate = "unknown"
