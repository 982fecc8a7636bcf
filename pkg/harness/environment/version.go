package environment

import (
	"os"
	"strings"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	dev = "0.0.0-dev"

	snapshotSuffix = "-SNAPSHOT"
)

// Version of this binary
var Version = dev

func IsDev() bool {
	return Version == dev
}

// Hostname returns the name of the machine the harness is running on.
// It falls back to "unknown" since it is only used for informational purposes.
func Hostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		klog.V(log.LogLevelDebug).InfoS("could not read hostname", "error", err)
		return "unknown"
	}

	return hostname
}

// PluginVersion returns the configured version or derives it from the plugin
// name, i.e. "hub-teamcity-3.1.0" results in "3.1.0" and
// "hub-teamcity-3.1.0-SNAPSHOT" results in "3.1.0-SNAPSHOT".
func PluginVersion(version, name string) string {
	if len(strings.TrimSpace(version)) > 0 {
		return version
	}

	if len(name) == 0 {
		return IfDev(Version)
	}

	search := strings.TrimSuffix(name, snapshotSuffix)
	return name[strings.LastIndex(search, "-")+1:]
}

// IfDev returns "unknown" for development builds.
func IfDev(version string) string {
	if version == dev {
		return "unknown"
	}

	return version
}
