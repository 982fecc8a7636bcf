package args

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/helpers"
	"github.com/pluralsh/scan-harness/pkg/harness/parameters"
	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	EnvSystemPropertiesFile = "SYSTEM_PROPERTIES_FILE"
	EnvConfigPropertiesFile = "CONFIG_PROPERTIES_FILE"
	EnvServerConfig         = "SERVER_CONFIG"
	EnvWorkingDir           = "WORKING_DIR"
	EnvFailOnPolicy         = "FAIL_ON_POLICY"
	EnvScanTimeout          = "SCAN_TIMEOUT"
	EnvMetricsFile          = "METRICS_FILE"
	EnvArtifactBucket       = "ARTIFACT_BUCKET"
	EnvArtifactEndpoint     = "ARTIFACT_ENDPOINT"
	EnvArtifactRegion       = "ARTIFACT_REGION"
	EnvArtifactAccessKey    = "ARTIFACT_ACCESS_KEY"
	EnvArtifactSecretKey    = "ARTIFACT_SECRET_KEY"
	EnvArtifactUseSSL       = "ARTIFACT_USE_SSL"

	// EnvTeamCityBuildProperties is exported by the TeamCity agent for every build.
	EnvTeamCityBuildProperties = "TEAMCITY_BUILD_PROPERTIES_FILE"

	// Scan CLI invocations are unbounded by default.
	defaultScanTimeout = "0s"
)

var (
	argParams               = pflag.StringArray("param", nil, "Runner parameter in the key=value form, can be repeated. Overrides all other parameter sources")
	argSystemPropertiesFile = pflag.String("system-properties-file", helpers.GetPluralEnv(EnvSystemPropertiesFile, helpers.GetEnv(EnvTeamCityBuildProperties, "")), "Path to the build system properties file")
	argConfigPropertiesFile = pflag.String("config-properties-file", helpers.GetPluralEnv(EnvConfigPropertiesFile, ""), "Path to the build configuration properties file. Defaults to the file referenced by the system properties")
	argServerConfig         = pflag.String("server-config", helpers.GetPluralEnv(EnvServerConfig, ""), "Path to a versioned server configuration document")
	argWorkingDir           = pflag.String("working-dir", helpers.GetPluralEnv(EnvWorkingDir, ""), "Working directory of the build. Overrides the build parameter")
	argFailOnPolicy         = pflag.Bool("fail-on-policy", helpers.GetPluralEnv(EnvFailOnPolicy, "false") == "true", "Fail the build when the project version violates a policy")
	argScanTimeout          = pflag.String("scan-timeout", helpers.GetPluralEnv(EnvScanTimeout, defaultScanTimeout), "Maximum time a single scan CLI invocation can run, 0 means unbounded")
	argMetricsFile          = pflag.String("metrics-file", helpers.GetPluralEnv(EnvMetricsFile, ""), "Write run metrics in the Prometheus text format into this file")
	argArtifactBucket       = pflag.String("artifact-bucket", helpers.GetPluralEnv(EnvArtifactBucket, ""), "Additionally upload published artifacts into this bucket")
	argArtifactEndpoint     = pflag.String("artifact-endpoint", helpers.GetPluralEnv(EnvArtifactEndpoint, "s3.amazonaws.com"), "S3 compatible endpoint of the artifact bucket")
	argArtifactRegion       = pflag.String("artifact-region", helpers.GetPluralEnv(EnvArtifactRegion, ""), "Region of the artifact bucket")
	argArtifactAccessKey    = pflag.String("artifact-access-key", helpers.GetPluralEnv(EnvArtifactAccessKey, ""), "Access key of the artifact bucket")
	argArtifactSecretKey    = pflag.String("artifact-secret-key", helpers.GetPluralEnv(EnvArtifactSecretKey, ""), "Secret key of the artifact bucket")
	argArtifactUseSSL       = pflag.Bool("artifact-use-ssl", helpers.GetPluralEnv(EnvArtifactUseSSL, "true") == "true", "Use TLS to connect to the artifact endpoint")
)

func init() {
	// Init klog
	fs := flag.NewFlagSet("", flag.PanicOnError)
	klog.InitFlags(fs)

	// Use default log level defined by the application
	_ = fs.Set("v", fmt.Sprintf("%d", log.LogLevelDefault))

	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()

	klog.V(log.LogLevelMinimal).InfoS("configured log level", "v", LogLevel())
}

// Params returns the runner parameters. An entry without "=" is a usage error.
func Params() (map[string]string, error) {
	return parameters.FromPairs(*argParams)
}

func SystemPropertiesFile() string {
	return *argSystemPropertiesFile
}

func ConfigPropertiesFile() string {
	return *argConfigPropertiesFile
}

func ServerConfig() string {
	return *argServerConfig
}

func WorkingDir() string {
	return *argWorkingDir
}

func FailOnPolicy() bool {
	return *argFailOnPolicy
}

func ScanTimeout() time.Duration {
	duration, err := time.ParseDuration(*argScanTimeout)
	if err != nil {
		klog.ErrorS(err, "Could not parse scan-timeout", "value", *argScanTimeout, "default", defaultScanTimeout)
		return 0
	}

	return duration
}

func MetricsFile() string {
	return *argMetricsFile
}

func ArtifactBucket() string {
	return *argArtifactBucket
}

func ArtifactEndpoint() string {
	return *argArtifactEndpoint
}

func ArtifactRegion() string {
	return *argArtifactRegion
}

func ArtifactAccessKey() string {
	return *argArtifactAccessKey
}

func ArtifactSecretKey() string {
	return *argArtifactSecretKey
}

func ArtifactUseSSL() bool {
	return *argArtifactUseSSL
}

func LogLevel() klog.Level {
	v := pflag.Lookup("v")
	if v == nil {
		return log.LogLevelDefault
	}

	level, err := strconv.ParseInt(v.Value.String(), 10, 32)
	if err != nil {
		klog.ErrorS(err, "Could not parse log level", "level", v.Value.String(), "default", log.LogLevelDefault)
		return log.LogLevelDefault
	}

	return klog.Level(level)
}
