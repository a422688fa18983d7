package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the build information of the running binary.
type Info struct {
	Version   string `yaml:"version" json:"version"`
	GitCommit string `yaml:"git_commit,omitempty" json:"git_commit,omitempty"`
	BuildTime string `yaml:"build_time,omitempty" json:"build_time,omitempty"`
	GoVersion string `yaml:"go_version" json:"go_version"`
	Dirty     bool   `yaml:"dirty,omitempty" json:"dirty,omitempty"`
}

// Get returns the build information, filling gaps from the embedded VCS
// stamp.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
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
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// IsRelease reports whether the binary was built from a tagged version.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !i.Dirty && !strings.Contains(i.Version, "dirty")
}

// String renders the version as "1.2.0-abc1234-dirty".
func (i Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.Dirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// Fields returns the build information as log fields.
func (i Info) Fields() map[string]interface{} {
	return map[string]interface{}{
		"version":    i.String(),
		"go_version": i.GoVersion,
		"build_time": i.BuildTime,
	}
}

// Short is Get().String().
func Short() string { return Get().String() }

// Full is the version with the Go toolchain and build time appended.
func Full() string {
	i := Get()
	s := i.String()
	if i.GoVersion != "" {
		s += fmt.Sprintf(" (%s", i.GoVersion)
		if i.BuildTime != "" {
			s += ", built " + i.BuildTime
		}
		s += ")"
	}
	return s
}
