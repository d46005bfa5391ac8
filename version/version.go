package version

import (
	"fmt"
	"strings"
	"sync"
)

// buildCharacters are the characters allowed in appBuild
const buildCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// appBuild can be set at link time with
// '-ldflags "-X github.com/weightdag/dagd/version.appBuild=foo"'.
// Values with characters outside buildCharacters are ignored.
var appBuild string

var (
	versionOnce sync.Once
	version     string
)

// Version returns the application version as a semantic version string
func Version() string {
	versionOnce.Do(func() {
		version = formatVersion(appMajor, appMinor, appPatch, appBuild)
	})
	return version
}

func formatVersion(major, minor, patch uint, build string) string {
	formatted := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if isValidBuild(build) {
		formatted += "+" + build
	}
	return formatted
}

func isValidBuild(build string) bool {
	return build != "" && strings.Trim(build, buildCharacters) == ""
}
