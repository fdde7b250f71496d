package version

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags "-X".
var (
	BuildVersion = "latest"
	BuildDate    = "unknown"
	GitCommitID  = "unknown"
)

// ServiceName identifies the gateway in banners, docs and MCP handshakes
const ServiceName = "maverick-mcp-server"

// Info describes the running binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func Get() Info {
	return Info{
		Version:   BuildVersion,
		BuildDate: BuildDate,
		GitCommit: GitCommitID,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns the banner printed by the version command
func String() string {
	info := Get()
	return fmt.Sprintf("%s %s (built on %s, commit %s, %s %s)",
		ServiceName, info.Version, info.BuildDate, info.GitCommit, info.GoVersion, info.Platform)
}

// UserAgent identifies the gateway to upstream services
func UserAgent() string {
	return ServiceName + "/" + BuildVersion
}
