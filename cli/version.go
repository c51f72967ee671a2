package cli

import "runtime/debug"

// version is set at build time with
// -ldflags "-X github.com/brimdata/extsort/cli.version=v1.2.3".
var version string

func Version() string {
	if version != "" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "unknown"
	}
	return info.Main.Version
}
