// Package version reports the binary's release and build metadata.
package version

import (
	_ "embed"
	"fmt"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Populated by release builds via
// -ldflags "-X github.com/chiheye/LLMGraphChat/internal/version.commit=... -X .../version.date=...".
var (
	commit string
	date   string
)

// Info is the resolved version metadata for the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
}

// Get resolves the version metadata. The embedded VERSION file is
// authoritative for the semantic version; commit and date come from the
// linker when injected, falling back to VCS build info for go install builds.
func Get() Info {
	return Info{
		Version:   strings.TrimSpace(rawVersion),
		GitCommit: resolveCommit(),
		BuildDate: resolveDate(),
	}
}

// String formats Info for human-readable display.
func (i Info) String() string {
	return fmt.Sprintf("Version:    %s\nGit Commit: %s\nBuild Date: %s",
		i.Version, i.GitCommit, i.BuildDate)
}

func resolveCommit() string {
	if commit != "" {
		return commit
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	revision := ""
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "unknown"
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if dirty {
		revision += "-dirty"
	}
	return revision
}

func resolveDate() string {
	if date != "" {
		return date
	}
	return "unknown"
}
