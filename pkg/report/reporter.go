// Package report delivers routing outcomes back to caller-supplied receivers.
package report

import (
	"context"

	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
)

// Reporter delivers the outcome of one envelope to its reply subject.
// Delivery is fire-and-forget: the runner logs a failed report and moves on.
type Reporter interface {
	Report(ctx context.Context, replyTo string, outcome *dispatcher.Outcome) error
}

// NoOpReporter is a Reporter that does nothing (for in-process usage without
// result delivery).
type NoOpReporter struct{}

// Report is a no-op.
func (r *NoOpReporter) Report(_ context.Context, _ string, _ *dispatcher.Outcome) error {
	return nil
}

// CallbackReporter is a Reporter that calls a callback function (for testing).
type CallbackReporter struct {
	callback func(ctx context.Context, replyTo string, outcome *dispatcher.Outcome) error
}

// NewCallbackReporter creates a new CallbackReporter.
func NewCallbackReporter(cb func(ctx context.Context, replyTo string, outcome *dispatcher.Outcome) error) *CallbackReporter {
	return &CallbackReporter{callback: cb}
}

// Report calls the callback.
func (r *CallbackReporter) Report(ctx context.Context, replyTo string, outcome *dispatcher.Outcome) error {
	return r.callback(ctx, replyTo, outcome)
}
