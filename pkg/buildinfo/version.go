// Package buildinfo reports which diaconv build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/diaconv/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/diaconv/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/diaconv
//
// A binary built with plain go install has no stamps. For it, [Resolve]
// falls back to the module version and VCS settings recorded by the Go
// toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Stamped by ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() { Resolve(debug.ReadBuildInfo) }

// Resolve fills unstamped variables from read, normally
// [debug.ReadBuildInfo].
func Resolve(read func() (*debug.BuildInfo, bool)) {
	info, ok := read()
	if !ok {
		return
	}
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
