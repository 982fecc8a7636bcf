package bom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pluralsh/polly/algorithms"
	"github.com/pluralsh/polly/containers"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/metrics"
	"github.com/pluralsh/scan-harness/pkg/client"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	// DefaultTimeout is used when no positive wait time is configured.
	DefaultTimeout = 5 * time.Minute
	// DefaultInterval between two status checks.
	DefaultInterval = 10 * time.Second
)

// StatusReader refreshes a scan summary.
type StatusReader interface {
	ScanSummary(ctx context.Context, href string) (*client.ScanSummary, error)
}

// Waiter polls the remote service until every uploaded scan has been fully
// ingested into the bill of materials.
type Waiter struct {
	reader   StatusReader
	interval time.Duration
}

type Option func(*Waiter)

func WithInterval(interval time.Duration) Option {
	return func(w *Waiter) {
		w.interval = interval
	}
}

func NewWaiter(reader StatusReader, options ...Option) *Waiter {
	result := &Waiter{
		reader:   reader,
		interval: DefaultInterval,
	}

	for _, o := range options {
		o(result)
	}

	return result
}

// Wait blocks until all summaries are done or timeout elapses. An elapsed
// timeout results in a TimeoutError, a remote failure or a failed scan
// results in an IntegrationError.
func (in *Waiter) Wait(ctx context.Context, summaries []client.ScanSummary, timeout time.Duration) (err error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	start := time.Now()
	defer func() {
		metrics.Record().BomWaitDuration(time.Since(start), err)
	}()

	pending := containers.ToSet(algorithms.Map(summaries, func(s client.ScanSummary) string {
		return s.Meta.Href
	}))

	err = wait.PollUntilContextTimeout(ctx, in.interval, timeout, true, func(ctx context.Context) (bool, error) {
		for _, href := range pending.List() {
			summary, err := in.reader.ScanSummary(ctx, href)
			if err != nil && ctx.Err() != nil {
				// The wait deadline was reached during the request.
				return false, ctx.Err()
			}

			if err != nil {
				return false, err
			}

			if summary.Status.Failed() {
				var cause error
				if len(summary.StatusMessage) > 0 {
					cause = errors.New(summary.StatusMessage)
				}

				return false, internalerrors.NewIntegrationError(fmt.Sprintf("the scan %s finished with status %s", href, summary.Status), cause)
			}

			if summary.Status.Done() {
				pending.Remove(href)
			}
		}

		klog.V(log.LogLevelDebug).InfoS("waiting for the bom", "pending", pending.Len())
		return pending.Len() == 0, nil
	})

	switch {
	case err == nil:
		return nil
	case wait.Interrupted(err) && ctx.Err() == nil:
		return internalerrors.NewTimeoutError(
			fmt.Sprintf("The Bom has not finished updating from the scan within the specified wait time : %d minutes", int(timeout.Minutes())),
			err,
		)
	case wait.Interrupted(err):
		return internalerrors.NewIntegrationError("stopped waiting for the bom", context.Cause(ctx))
	}

	return err
}
