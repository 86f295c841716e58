// Package version carries the build identity stamped into the cwallet
// binary with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/mrz1836/cwallet/internal/version.Version=v1.0.0"
//
//nolint:gochecknoglobals // ldflags targets must be package variables
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

const (
	devVersion = "dev"
	unknown    = "unknown"
)

// Info is the build identity of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the stamped build identity. A binary installed with
// go install has no ldflags, so the module version recorded by the
// toolchain is used instead.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Version == "" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

// String renders "v1.2.3 (commit: abc1234, built: 2024-01-15)" with
// placeholders for anything not stamped.
func (i Info) String() string {
	v, c, d := i.Version, i.Commit, i.Date
	if v == "" {
		v = devVersion
	}
	if c == "" {
		c = unknown
	}
	if d == "" {
		d = unknown
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
