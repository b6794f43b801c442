package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// Version is injected at link time with -ldflags "-X github.com/temirov/barrel/internal/utils.Version=...".
var Version = EmptyString

// GetApplicationVersion reports the linked version, then the module version from build info,
// then the output of git describe when run from a checkout.
func GetApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}
	if buildInfo, available := debug.ReadBuildInfo(); available {
		moduleVersion := buildInfo.Main.Version
		if moduleVersion != EmptyString && moduleVersion != developmentVersion {
			return moduleVersion
		}
	}
	// #nosec G204
	describeOutput, describeError := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if describeError == nil {
		if described := strings.TrimSpace(string(describeOutput)); described != EmptyString {
			return described
		}
	}
	return unknownVersion
}
