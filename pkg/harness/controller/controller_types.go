package controller

import (
	"context"
	"sync"
	"time"

	"github.com/pluralsh/scan-harness/pkg/client"
	"github.com/pluralsh/scan-harness/pkg/harness/bom"
	"github.com/pluralsh/scan-harness/pkg/harness/config"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/harness/parameters"
)

// BuildResult is the final outcome of a run as reported to the host.
type BuildResult string

const (
	BuildResultSuccess BuildResult = "SUCCESS"
	BuildResultFailed  BuildResult = "FAILED"
)

// ExitCode maps the result to the process exit code.
func (in BuildResult) ExitCode() int {
	if in == BuildResultSuccess {
		return 0
	}

	return 1
}

const (
	// DefaultSettleDelay lets the host register the published report before
	// the step finishes.
	DefaultSettleDelay = 2 * time.Second

	// PluginName identifies this integration next to the build server.
	PluginName = "scan-harness"

	MessageReportDryRun = "Will not generate the risk report because this was a dry run scan."
	MessageVerifyPlugin = "Please verify the correct dependent Hub configuration plugin is installed"
	MessageVerifyConfig = "Please verify the configuration is correct if the plugin is installed."
	MessageNoSummaries  = "No scan status was written by the Hub CLI, the Bom may not be updated yet."
)

type Controller interface {
	// Start runs all steps sequentially and never panics. It always returns
	// a result, FAILED whenever the host was asked to stop the build.
	Start(ctx context.Context) BuildResult
}

// ClientFactory creates the remote service client for a validated server
// configuration. The scan configuration carries the integration identity.
type ClientFactory func(server *config.ServerConfig, scan *config.ScanConfig) (client.Client, error)

type scanController struct {
	sync.Mutex

	// host receives the build log, artifacts and stop requests
	host host.Host

	// settings are the merged build parameters
	settings *parameters.Settings

	// document is the optional persisted server configuration
	document *config.ServerConfigDocument

	// newClient creates the remote service client
	newClient ClientFactory

	// workingDir overrides the working directory from settings
	workingDir string

	// scanTimeout bounds a single CLI invocation, zero means unbounded
	scanTimeout time.Duration

	// settleDelay is the pause after the report was registered
	settleDelay time.Duration

	// defaultBomWaitTime is used when no max wait time is configured
	defaultBomWaitTime time.Duration

	// waiterOptions are passed to every bom.Waiter
	waiterOptions []bom.Option

	// result is set exactly once per run
	result *BuildResult
}

type Option func(*scanController)
