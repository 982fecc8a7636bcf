package scan

import (
	"github.com/Masterminds/semver/v3"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/log"
)

// logOptionConstraint matches server versions whose CLI accepts --logDir.
var logOptionConstraint = mustConstraint(">= 2.0.0")

func mustConstraint(constraint string) *semver.Constraints {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		panic(err)
	}

	return c
}

// SupportsLogOption reports whether the scan CLI shipped with the given
// server version accepts the log directory option.
func SupportsLogOption(serverVersion string) bool {
	version, err := semver.NewVersion(serverVersion)
	if err != nil {
		klog.V(log.LogLevelDebug).InfoS("could not parse server version", "version", serverVersion, "error", err)
		return false
	}

	// Prereleases do not satisfy a constraint without a prerelease part.
	core, _ := version.SetPrerelease("")
	return logOptionConstraint.Check(&core)
}

// SameVersion compares versions semantically and falls back to string
// equality when either cannot be parsed.
func SameVersion(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return a == b
	}

	return va.Equal(vb)
}
