package signals

import (
	"context"
)

type cancelableContext struct {
	context.Context

	Cancel context.CancelCauseFunc
}

// NewCancelableContext returns a context that is canceled, with a cause, by
// the first of the provided signals that fires.
func NewCancelableContext(parent context.Context, signals ...Signal) (context.Context, context.CancelCauseFunc) {
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancelCause(parent)
	for _, signal := range signals {
		signal.Listen(cancel)
	}

	return &cancelableContext{
		Context: ctx,
		Cancel:  cancel,
	}, cancel
}
