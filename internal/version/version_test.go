package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version is empty, want embedded VERSION content")
	}
	if info.GitCommit == "" {
		t.Error("GitCommit is empty, want hash or \"unknown\"")
	}
	if info.BuildDate == "" {
		t.Error("BuildDate is empty, want date or \"unknown\"")
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "0.1.0",
		GitCommit: "abc1234",
		BuildDate: "2026-01-10T15:04:05Z",
	}

	got := info.String()
	for _, want := range []string{"Version:    0.1.0", "Git Commit: abc1234", "Build Date: 2026-01-10T15:04:05Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
