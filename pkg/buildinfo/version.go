// Package buildinfo exposes the version stamped into the seqsee binary.
//
// The variables are overwritten at link time:
//
//	go build -ldflags "-X github.com/matzehuels/seqsee/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/seqsee/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/seqsee/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/seqsee
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// String returns the multi-line build description printed by "seqsee version".
func String() string {
	return fmt.Sprintf("seqsee %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}

// UserAgent identifies the server in the Server response header.
func UserAgent() string {
	return "seqsee/" + Version
}

// Info is the JSON shape of the build description served by /healthz.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the stamped build description.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}
