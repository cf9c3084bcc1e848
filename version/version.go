// Package version holds build information injected with -ldflags:
//
//	go build -ldflags "-X github.com/tsawler/outliner/version.GitRelease=v1.0.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)

// String returns a one-line summary
func String() string {
	return fmt.Sprintf("outliner %s (%s, %s)", GitRelease, GitCommit, GitCommitDate)
}
