package signals

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

type timeoutSignal struct {
	timeout time.Duration
}

func (in *timeoutSignal) Listen(cancelFunc context.CancelCauseFunc) {
	if in.timeout <= 0 {
		return
	}

	klog.V(log.LogLevelDebug).InfoS("starting timeout signal listener", "timeout", in.timeout)
	time.AfterFunc(in.timeout, func() {
		cancelFunc(errors.ErrTimeout)
	})
}

// NewTimeoutSignal cancels the context with errors.ErrTimeout once the timeout
// elapses. A non-positive timeout never fires.
func NewTimeoutSignal(timeout time.Duration) Signal {
	return &timeoutSignal{
		timeout,
	}
}

type terminationSignal struct {
	ctx context.Context
}

func (in *terminationSignal) Listen(cancelFunc context.CancelCauseFunc) {
	go func() {
		<-in.ctx.Done()
		cancelFunc(errors.ErrTerminated)
	}()
}

// NewTerminationSignal cancels the context with errors.ErrTerminated once
// the provided context, i.e. the one returned by SetupSignalHandler, is done.
func NewTerminationSignal(ctx context.Context) Signal {
	return &terminationSignal{ctx}
}
