package controller

import (
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/metrics"
	"github.com/pluralsh/scan-harness/pkg/harness/environment"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

// preStart prints the run banner before any configuration is validated.
func (in *scanController) preStart() {
	in.host.Info(fmt.Sprintf("Running on machine : %s", environment.Hostname()))
	in.host.Info(fmt.Sprintf("TeamCity version : %s", in.settings.ServerVersion))

	if len(in.settings.PluginVersion) == 0 && len(in.settings.PluginName) > 0 {
		in.host.Warn(fmt.Sprintf("No plugin version was provided, deriving it from the plugin name %s", in.settings.PluginName))
	}
	in.host.Info(fmt.Sprintf("Hub TeamCity Plugin version : %s", in.pluginVersion()))
}

// postStart converts the run error into the final result. Errors that
// stopped the build have already been reported to the host. A stopped build
// is always FAILED.
func (in *scanController) postStart(err error) BuildResult {
	if result, ok := in.currentResult(); ok {
		return result
	}

	result := BuildResultSuccess

	switch {
	case err == nil:
	case in.host.Stopped():
		klog.V(log.LogLevelInfo).InfoS("build has been stopped", "reason", err)
		result = BuildResultFailed
	default:
		klog.ErrorS(err, "scan run failed")
		in.host.Error(message(err))
		result = BuildResultFailed
	}

	if in.host.Stopped() {
		result = BuildResultFailed
	}

	return in.setResult(result)
}

// setResult records the first result and ignores every later one.
func (in *scanController) setResult(result BuildResult) BuildResult {
	in.Lock()
	defer in.Unlock()

	if in.result != nil {
		klog.V(log.LogLevelDebug).InfoS("ignoring result, it has already been set", "result", result, "current", *in.result)
		return *in.result
	}

	in.result = &result
	metrics.Record().BuildResult(string(result))
	return result
}

func (in *scanController) currentResult() (BuildResult, bool) {
	in.Lock()
	defer in.Unlock()

	if in.result == nil {
		return "", false
	}

	return *in.result, true
}

func (in *scanController) pluginVersion() string {
	return environment.PluginVersion(in.settings.PluginVersion, in.settings.PluginName)
}

// message drops the taxonomy prefix for errors shown in the build log.
func message(err error) string {
	harnessErr := new(internalerrors.HarnessError)
	if errors.As(err, &harnessErr) && harnessErr.Unwrap() == nil {
		return harnessErr.Message()
	}

	return err.Error()
}
