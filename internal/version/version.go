// Package version reports build information and checks store server
// versions against a dialect minimum.
package version

import (
	"fmt"
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

var (
	// Version is the version of the CLI
	Version = "0.1.0"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("safequery version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns a detailed version string
func (i Info) FullString() string {
	return fmt.Sprintf(`safequery version %s
Build Date: %s
Git Commit: %s
Platform: %s
Go Version: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}

// ParseServer extracts the leading version number from a store-reported
// version string such as "16.2 (Debian 16.2-1.pgdg120+2)" or
// "8.0.36-0ubuntu0.22.04.1".
func ParseServer(raw string) (*goversion.Version, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, " -+"); i >= 0 {
		s = s[:i]
	}
	v, err := goversion.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid server version %q: %w", raw, err)
	}
	return v, nil
}

// CheckServer returns the parsed server version and an error when it is
// older than min. An empty min accepts any parseable version.
func CheckServer(raw, min string) (*goversion.Version, error) {
	v, err := ParseServer(raw)
	if err != nil {
		return nil, err
	}
	if min == "" {
		return v, nil
	}

	floor, err := goversion.NewVersion(min)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum version %q: %w", min, err)
	}
	if v.LessThan(floor) {
		return v, fmt.Errorf("server version %s is older than the supported minimum %s", v, floor)
	}
	return v, nil
}
