// Package version reports the build version of xgoimages.
//
// Values set with -ldflags "-X" take precedence; otherwise they are read from
// the module build information embedded by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the module version, e.g. "v0.3.1".
	Version = ""
	// Revision is the VCS revision the binary was built from.
	Revision = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if ok {
		if Version == "" && info.Main.Version != "" {
			Version = info.Main.Version
		}

		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && Revision == "" {
				Revision = s.Value
			}
		}
	}

	if Version == "" {
		Version = "(devel)"
	}
	if Revision == "" {
		Revision = "unknown"
	}
}

// String returns the version and revision.
func String() string {
	return fmt.Sprintf("%s+%s", Version, Revision)
}
