package version

import (
	"fmt"
	"strings"
)

// validCharacters is a list of characters valid in the appBuild string
const validCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// appBuild is defined as a variable so it can be overridden during the build
// process with '-ldflags "-X github.com/kaspanet/chaintracker/version.appBuild=foo"' if needed.
// Builds containing characters outside of validCharacters are ignored.
var appBuild string

// Version returns the application version as a properly formed string
func Version() string {
	version := fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
	if isValidBuild(appBuild) {
		version += "-" + appBuild
	}
	return version
}

func isValidBuild(build string) bool {
	if build == "" {
		return false
	}
	for _, r := range build {
		if !strings.ContainsRune(validCharacters, r) {
			return false
		}
	}
	return true
}
