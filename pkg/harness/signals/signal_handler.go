package signals

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

var (
	onlyOneSignalHandler = make(chan struct{})
	// shutdownSignals are sent when the build is stopped or the agent
	// goes away. POSIX only.
	shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
)

// SetupSignalHandler registers for SIGINT, SIGTERM and SIGHUP. A context is
// returned which is canceled with errors.ErrTerminated on one of these
// signals, giving the running scan a chance to stop. If a second signal is
// caught, the program exits directly with the given code.
func SetupSignalHandler(code ExitCode) context.Context {
	close(onlyOneSignalHandler) // panics when called twice

	c := make(chan os.Signal, 2)
	signal.Notify(c, shutdownSignals...)

	return handle(c, code, os.Exit)
}

func handle(c <-chan os.Signal, code ExitCode, exit func(int)) context.Context {
	ctx, cancel := context.WithCancelCause(context.Background())

	go func() {
		sig := <-c
		klog.V(log.LogLevelMinimal).InfoS("received signal, stopping the scan", "signal", sig)
		cancel(fmt.Errorf("%w: %s", errors.ErrTerminated, sig))

		sig = <-c
		klog.ErrorS(errors.ErrTerminated, "received second signal, exiting", "signal", sig, "code", code)
		exit(code.Int())
	}()

	return ctx
}
