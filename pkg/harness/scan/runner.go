package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/helpers"
	"github.com/pluralsh/scan-harness/internal/metrics"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/exec"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/harness/signals"
	"github.com/pluralsh/scan-harness/pkg/log"
)

// Outcome of a scan run after recoveries have been applied.
type Outcome struct {
	ReturnCode int
	// Output is the standard output followed by the standard error of the
	// last invocation.
	Output string
	Result ClassificationKind
	// Invocations is the number of times the CLI was executed.
	Invocations int
	// Recovery is the reason of the applied recovery, if any.
	Recovery string
}

// Runner executes the scan CLI and classifies its output.
type Runner struct {
	logger host.Logger
	// timeout bounds every single CLI invocation, zero means unbounded.
	timeout time.Duration
	// logOptionSupported enables printing of the CLI log location.
	logOptionSupported bool
}

type RunnerOption func(*Runner)

func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

func WithLogOptionSupported(supported bool) RunnerOption {
	return func(r *Runner) {
		r.logOptionSupported = supported
	}
}

func NewRunner(logger host.Logger, options ...RunnerOption) *Runner {
	result := &Runner{logger: logger}

	for _, o := range options {
		o(result)
	}

	return result
}

// Run executes the invocation. A known failure signature triggers at most one
// re-invocation with a rewritten log directory, its output replaces the
// first one. Execution failures are returned as IntegrationError, an exceeded
// timeout as TimeoutError.
func (in *Runner) Run(ctx context.Context, invocation *Invocation) (*Outcome, error) {
	in.logger.Info("Hub CLI command :")
	in.logger.Info(invocation.Masked())

	result, err := in.execute(ctx, invocation)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{ReturnCode: result.ReturnCode, Output: result.Output(), Invocations: 1}
	if classification := Classify(outcome.Output); classification.Kind == ClassificationRetryRequired && len(invocation.LogDir) > 0 {
		recovery := classification.Recovery
		klog.V(log.LogLevelDefault).InfoS("retrying scan with rewritten log directory", "reason", recovery.Reason)
		metrics.Record().ScanRecovery(recovery.Reason)

		if result, err = in.execute(ctx, invocation.WithLogDir(recovery.Rewrite(invocation.LogDir))); err != nil {
			return nil, err
		}

		outcome.ReturnCode = result.ReturnCode
		outcome.Output = result.Output()
		outcome.Invocations++
		outcome.Recovery = recovery.Reason
	}

	in.logger.Info(fmt.Sprintf("Hub CLI return code : %d", outcome.ReturnCode))
	in.logger.Info(outcome.Output)

	if in.logOptionSupported && len(invocation.LogDir) > 0 && helpers.IsDir(invocation.LogDir) {
		in.logger.Info(fmt.Sprintf("You can view the BlackDuck Scan CLI logs at : '%s'", invocation.LogDir))
		in.logger.Info("")
	}

	outcome.Result = Result(outcome.Output)
	return outcome, nil
}

func (in *Runner) execute(ctx context.Context, invocation *Invocation) (*exec.Result, error) {
	ctx, cancel := signals.NewCancelableContext(ctx, signals.NewTimeoutSignal(in.timeout))
	defer cancel(nil)

	start := time.Now()
	result, err := exec.NewExecutable(
		invocation.Command,
		exec.WithArgs(invocation.Args),
		exec.WithDir(invocation.Dir),
		exec.WithCustomOutputSink(outputSink{stream: "stdout"}),
		exec.WithCustomErrorSink(outputSink{stream: "stderr"}),
	).Run(ctx)
	switch {
	case errors.Is(err, internalerrors.ErrTimeout):
		metrics.Record().ScanDuration(time.Since(start), string(ClassificationFailure))
		return nil, internalerrors.NewTimeoutError(fmt.Sprintf("the Hub CLI did not finish within %s", in.timeout), err)
	case err != nil:
		return nil, internalerrors.NewIntegrationError("could not execute the Hub CLI", err)
	}

	metrics.Record().ScanDuration(time.Since(start), string(Result(result.Output())))
	return result, nil
}

// outputSink streams the CLI output to the harness log while it is being
// captured for the build log.
type outputSink struct {
	stream string
}

func (in outputSink) Write(p []byte) (int, error) {
	klog.V(log.LogLevelVerbose).InfoS("scan cli output", "stream", in.stream, "output", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
