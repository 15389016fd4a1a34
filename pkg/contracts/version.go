package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	// Version is the current version of the application
	Version = "1.0.0"

	// DataFormatVersion tags the layout of the persisted JSON collections.
	DataFormatVersion = "v1"

	// APIVersion is the version of the local desk HTTP API
	APIVersion = "v1"
)

// Set with -ldflags "-X". When left empty the VCS stamp recorded by the Go
// toolchain is used instead.
var (
	BuildTime = ""
	GitCommit = ""
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version    string `json:"version"`
	BuildTime  string `json:"buildTime"`
	GitCommit  string `json:"gitCommit"`
	Modified   bool   `json:"modified,omitempty"`
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
	DataFormat string `json:"dataFormat"`
	APIVersion string `json:"apiVersion"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:    Version,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		DataFormat: DataFormatVersion,
		APIVersion: APIVersion,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}

// String renders the one-line form printed by "bedelia version".
func (v VersionInfo) String() string {
	commit := v.GitCommit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if v.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("bedelia v%s (built: %s, commit: %s, %s, %s, data %s)",
		v.Version, v.BuildTime, commit, v.GoVersion, v.Platform, v.DataFormat)
}
