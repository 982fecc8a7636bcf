package controller

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/client"
	"github.com/pluralsh/scan-harness/pkg/harness/bom"
	"github.com/pluralsh/scan-harness/pkg/harness/config"
	"github.com/pluralsh/scan-harness/pkg/harness/environment"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/harness/policy"
	"github.com/pluralsh/scan-harness/pkg/harness/report"
	"github.com/pluralsh/scan-harness/pkg/harness/scan"
	"github.com/pluralsh/scan-harness/pkg/log"
)

// Start executes the scan run. It returns once:
//   - the server configuration could not be built
//   - an error has occurred in one of the steps
//   - the scan and all requested follow-up steps have finished
//
// Panics are recovered and reported as FAILED.
func (in *scanController) Start(ctx context.Context) (result BuildResult) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = internalerrors.NewUnclassifiedError(fmt.Errorf("panic: %v [recovered]", r))
		}

		result = in.postStart(err)
	}()

	in.preStart()

	server, err := config.NewServerConfig(in.document, in.settings)
	if err != nil {
		in.host.Error(message(err))
		in.host.Error(MessageVerifyPlugin)
		in.host.Error(MessageVerifyConfig)
		return in.setResult(BuildResultFailed)
	}

	err = in.run(ctx, server)
	return
}

func (in *scanController) run(ctx context.Context, server *config.ServerConfig) error {
	for _, line := range server.Lines() {
		in.host.Info(line)
	}

	generateReport := in.settings.GenerateRiskReport
	checkPolicies := len(in.host.BuildFeatures(host.FeaturePolicyFailureCondition)) > 0
	waitTime := in.bomWaitTime()

	in.host.Info(fmt.Sprintf("--> Generate Risk Report : %t", generateReport))
	in.host.Info(fmt.Sprintf("--> Bom wait time : %s", in.rawBomWaitTime()))
	in.host.Info(fmt.Sprintf("--> Check Policies : %t", checkPolicies))

	scanConfig, err := in.scanConfig()
	if err != nil {
		return err
	}

	remote, err := in.newClient(server, scanConfig)
	if err != nil {
		return internalerrors.NewIntegrationError("could not create the Hub client", err)
	}

	if err = remote.Connect(ctx); err != nil {
		return err
	}

	serverVersion, err := remote.ServerVersion(ctx)
	if err != nil {
		return err
	}
	klog.V(log.LogLevelInfo).InfoS("connected", "url", server.URL().String(), "version", serverVersion)

	env, err := environment.New(
		environment.WithWorkingDir(scanConfig.WorkingDirectory()),
		environment.WithBuildNumber(scanConfig.BuildNumber()),
	)
	if err != nil {
		return err
	}

	if err = env.Setup(); err != nil {
		return err
	}

	if err = in.scan(ctx, server, scanConfig, env, remote, serverVersion); err != nil {
		return err
	}

	if scanConfig.DryRun() {
		if generateReport {
			in.host.Warn(MessageReportDryRun)
		}
		if checkPolicies {
			in.host.Warn(policy.MessageDryRun)
		}

		return nil
	}

	if !generateReport && !checkPolicies {
		return nil
	}

	in.host.Info("Waiting for Bom to be updated")
	summaries, err := scan.ReadSummaries(env.LogDir())
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		klog.V(log.LogLevelDefault).InfoS("no scan summaries found", "logDir", env.LogDir(), "serverVersion", serverVersion)
		in.host.Warn(MessageNoSummaries)
	}

	if err = bom.NewWaiter(remote, in.waiterOptions...).Wait(ctx, summaries, waitTime); err != nil {
		return err
	}

	if generateReport {
		in.host.Info("Generating Risk Report")
		if err = in.publishReport(ctx, remote, scanConfig); err != nil {
			return err
		}
	}

	if checkPolicies {
		in.host.Info("Checking for Policy violations.")
		return policy.NewEvaluator(remote, in.host, in.host).
			Evaluate(ctx, scanConfig.ProjectName(), scanConfig.Version(), scanConfig.DryRun())
	}

	return nil
}

// scan installs the CLI if needed, builds the invocation and runs it.
func (in *scanController) scan(ctx context.Context, server *config.ServerConfig, scanConfig *config.ScanConfig, env environment.Environment, remote client.Client, serverVersion string) error {
	tools, err := scan.NewInstaller(scanConfig.ToolsDir(), remote, in.host).Ensure(ctx, serverVersion)
	if err != nil {
		return err
	}

	supported := scan.SupportsLogOption(serverVersion)
	invocation, err := scan.NewCommandBuilder(server, scanConfig, tools, in.host).
		WithLogDir(env.LogDir(), supported).
		Build()
	if err != nil {
		return err
	}

	outcome, err := scan.NewRunner(in.host, scan.WithTimeout(in.scanTimeout), scan.WithLogOptionSupported(supported)).
		Run(ctx, invocation)
	if err != nil {
		return err
	}

	if outcome.Result != scan.ClassificationSuccess {
		return internalerrors.NewIntegrationError(fmt.Sprintf("The scan failed with return code : %d", outcome.ReturnCode), nil)
	}

	return nil
}

func (in *scanController) publishReport(ctx context.Context, remote client.Client, scanConfig *config.ScanConfig) error {
	dir, err := report.NewPublisher(remote).Publish(ctx, scanConfig.WorkingDirectory(), scanConfig.ProjectName(), scanConfig.Version())
	if err != nil {
		return err
	}

	if err = in.host.RegisterArtifact(dir, report.DirectoryName); err != nil {
		return internalerrors.NewIntegrationError("could not publish the risk report", err)
	}

	select {
	case <-ctx.Done():
		return internalerrors.NewIntegrationError("interrupted while publishing the risk report", context.Cause(ctx))
	case <-time.After(in.settleDelay):
	}

	return nil
}

func (in *scanController) scanConfig() (*config.ScanConfig, error) {
	workingDir := in.workingDir
	if len(workingDir) == 0 {
		workingDir = in.settings.WorkingDir
	}

	toolsDir := ""
	if len(in.settings.AgentToolsDir) > 0 {
		toolsDir = filepath.Join(in.settings.AgentToolsDir, scan.ToolsDirName)
	}

	return config.NewScanConfigBuilder().
		WithProject(in.settings.ProjectName, in.settings.ProjectVersion).
		WithWorkingDirectory(workingDir).
		WithTargets(in.settings.ScanTargets).
		WithDryRun(in.settings.DryRun).
		WithScanMemory(in.settings.ScanMemory).
		WithToolsDir(toolsDir).
		WithBuildNumber(in.settings.BuildNumber).
		WithThirdParty(config.ThirdPartyName, in.settings.ServerVersion).
		WithPluginVersion(in.pluginVersion()).
		Build()
}

func (in *scanController) bomWaitTime() time.Duration {
	if in.settings.MaxWaitTimeMinutes > 0 {
		return time.Duration(in.settings.MaxWaitTimeMinutes) * time.Minute
	}

	return in.defaultBomWaitTime
}

func (in *scanController) rawBomWaitTime() string {
	if in.settings.MaxWaitTimeMinutes > 0 {
		return strconv.Itoa(in.settings.MaxWaitTimeMinutes)
	}

	return ""
}

func (in *scanController) init() (Controller, error) {
	if in.host == nil {
		return nil, fmt.Errorf("could not initialize controller: host is nil")
	}

	if in.settings == nil {
		return nil, fmt.Errorf("could not initialize controller: settings are nil")
	}

	return in, nil
}

func NewScanController(options ...Option) (Controller, error) {
	ctrl := &scanController{
		newClient:          NewClient,
		settleDelay:        DefaultSettleDelay,
		defaultBomWaitTime: bom.DefaultTimeout,
	}

	for _, option := range options {
		option(ctrl)
	}

	return ctrl.init()
}
