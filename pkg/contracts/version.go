// Package contracts holds the versioning shared by the server, the batch
// command and API clients.
package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	Version    = "2.0.0"
	APIVersion = "v1" // contracts under pkg/contracts/api
)

// Overridden with -ldflags "-X logisticsmart/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is served by /api/version and printed by -version flags
type VersionInfo struct {
	Version      string `json:"version"`
	APIVersion   string `json:"api_version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// GetVersionInfo reports the build. When no ldflags were given, the commit
// and time fall back to the VCS stamp the go tool embeds.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:      Version,
		APIVersion:   APIVersion,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "unknown":
				info.GitCommit = shortCommit(s.Value)
			case s.Key == "vcs.time" && info.BuildTime == "unknown":
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// GetVersionString is the one-line product banner
func GetVersionString() string {
	return "LogisticSmart v" + Version
}

// GetFullVersionString adds API, build and platform details to the banner
func GetFullVersionString() string {
	i := GetVersionInfo()
	return fmt.Sprintf("%s (api: %s, built: %s, commit: %s, go: %s, os: %s/%s)",
		GetVersionString(), i.APIVersion, i.BuildTime, i.GitCommit, i.GoVersion, i.OS, i.Architecture)
}
