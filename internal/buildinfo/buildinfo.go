// Package buildinfo exposes version metadata stamped at link time.
//
// Build with:
//
//	go build -ldflags "-X github.com/kofany/sshm.io/internal/buildinfo.Version=... -X github.com/kofany/sshm.io/internal/buildinfo.Date=..."
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build metadata to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
