package main

import (
	"context"
	"errors"
	"os"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/cmd/scan-harness/args"
	"github.com/pluralsh/scan-harness/internal/metrics"
	"github.com/pluralsh/scan-harness/pkg/harness/config"
	"github.com/pluralsh/scan-harness/pkg/harness/controller"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/harness/signals"
	"github.com/pluralsh/scan-harness/pkg/log"
)

func main() {
	ctx, cancel := signals.NewCancelableContext(
		context.Background(),
		signals.NewTerminationSignal(signals.SetupSignalHandler(signals.ExitCodeTerminated)),
	)
	defer cancel(nil)

	settings, err := loadSettings()
	if err != nil {
		handleFatalError(err)
	}

	var document *config.ServerConfigDocument
	if path := args.ServerConfig(); len(path) > 0 {
		if document, err = config.LoadServerConfigDocument(path); err != nil {
			handleFatalError(err)
		}
	}

	registry, err := artifactRegistry(ctx, settings.BuildNumber)
	if err != nil {
		handleFatalError(err)
	}

	h := host.NewTeamCity(os.Stdout, host.WithFeatures(features()...), host.WithArtifactRegistry(registry))
	ctrl, err := controller.NewScanController(
		controller.WithHost(h),
		controller.WithSettings(settings),
		controller.WithServerConfigDocument(document),
		controller.WithWorkingDir(args.WorkingDir()),
		controller.WithScanTimeout(args.ScanTimeout()),
	)
	if err != nil {
		handleFatalError(err)
	}

	result := ctrl.Start(ctx)
	writeMetrics()

	if cause := context.Cause(ctx); errors.Is(cause, internalerrors.ErrTerminated) {
		klog.ErrorS(cause, "scan run has been terminated")
		os.Exit(signals.ExitCodeTerminated.Int())
	}

	klog.V(log.LogLevelInfo).InfoS("scan run finished", "result", result)
	os.Exit(result.ExitCode())
}

func features() []host.Feature {
	if !args.FailOnPolicy() {
		return nil
	}

	return []host.Feature{{Type: host.FeaturePolicyFailureCondition}}
}

// artifactRegistry returns nil when no artifact bucket is configured.
func artifactRegistry(ctx context.Context, buildNumber string) (host.ArtifactRegistry, error) {
	if len(args.ArtifactBucket()) == 0 {
		return nil, nil
	}

	return host.NewObjectStorageRegistry(ctx, host.ObjectStorageOptions{
		Endpoint:  args.ArtifactEndpoint(),
		Region:    args.ArtifactRegion(),
		Bucket:    args.ArtifactBucket(),
		AccessKey: args.ArtifactAccessKey(),
		SecretKey: args.ArtifactSecretKey(),
		UseSSL:    args.ArtifactUseSSL(),
		Prefix:    buildNumber,
	})
}

func writeMetrics() {
	path := args.MetricsFile()
	if len(path) == 0 {
		return
	}

	if err := metrics.Record().WriteToTextfile(path); err != nil {
		klog.ErrorS(err, "could not write metrics", "file", path)
	}
}

func handleFatalError(err error) {
	switch {
	case errors.Is(err, internalerrors.ErrConfiguration):
		klog.ErrorS(err, "invalid configuration")
		os.Exit(signals.ExitCodeUsage.Int())
	case errors.Is(err, internalerrors.ErrTerminated):
		klog.ErrorS(err, "scan run has been terminated")
		os.Exit(signals.ExitCodeTerminated.Int())
	case errors.Is(err, internalerrors.ErrTimeout):
		klog.ErrorS(err, "scan run timed out")
		os.Exit(signals.ExitCodeTimeout.Int())
	}

	klog.ErrorS(err, "scan run failed")
	os.Exit(signals.ExitCodeOther.Int())
}
