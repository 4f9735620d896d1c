package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Info describes a build of an executable
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Compiler  string `json:"compiler"`
	Source    string `json:"source,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Hash      string `json:"hash,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Set with -ldflags at build time
var (
	GitSource   string
	GitTag      string
	GitBranch   string
	GitHash     string
	GoBuildTime string
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Get returns the build information for an executable, from the values set
// at build time and then from the build information embedded by the compiler
func Get(name string) Info {
	info := Info{
		Name:      name,
		Version:   Version(),
		Compiler:  runtime.Version(),
		Source:    GitSource,
		Tag:       GitTag,
		Branch:    GitBranch,
		Hash:      GitHash,
		BuildTime: GoBuildTime,
	}
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Source == "" {
		info.Source = build.Main.Path
	}
	var goos, goarch string
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Hash == "" {
				info.Hash = setting.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		case "GOOS":
			goos = setting.Value
		case "GOARCH":
			goarch = setting.Value
		}
	}
	if goos != "" && goarch != "" {
		info.Platform = goos + "/" + goarch
	}
	return info
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (i Info) String() string {
	return types.Stringify(i)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the git tag, then the branch, then the short revision from
// the embedded build information, or "dev"
func Version() string {
	if GitTag != "" {
		return GitTag
	} else if GitBranch != "" {
		return GitBranch
	}
	if build, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range build.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value[:min(len(setting.Value), 12)]
			}
		}
	}
	return "dev"
}

// JSON returns the indented build information for an executable
func JSON(name string) []byte {
	data, err := json.MarshalIndent(Get(name), "", "  ")
	if err != nil {
		panic(err)
	}
	return append(data, '\n')
}
