package host

// Level of a build log message.
type Level string

const (
	LevelInfo    Level = "NORMAL"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Logger writes user visible lines to the build log.
type Logger interface {
	Log(level Level, message string)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// ArtifactRegistry publishes files produced by the build.
// The path can be either a file or a directory.
type ArtifactRegistry interface {
	RegisterArtifact(path, name string) error
}

// BuildController allows halting the build with a message.
type BuildController interface {
	StopBuild(message string)
	// Stopped reports whether StopBuild was called at least once.
	Stopped() bool
}

// FeatureLookup reports configured build features by type.
type FeatureLookup interface {
	BuildFeatures(featureType string) []Feature
}

// Feature is a build feature configured on the build.
type Feature struct {
	Type       string
	Parameters map[string]string
}

// Host is the set of capabilities the CI server provides to a build step.
type Host interface {
	Logger
	ArtifactRegistry
	BuildController
	FeatureLookup
}

const (
	// FeaturePolicyFailureCondition enables the policy check.
	FeaturePolicyFailureCondition = "hubPolicyFailureCondition"
)
