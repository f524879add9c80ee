package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
	"github.com/notifyhub/notifications-dispatch/pkg/report"
)

const runnerLogPrefix = "queue:runner"

// Router routes one envelope to its handler callback. *dispatcher.Dispatcher
// satisfies this.
type Router interface {
	Route(ctx context.Context, env *dispatcher.Envelope) (*dispatcher.Outcome, error)
}

// Runner drains one target's queue into a router, one envelope at a time, and
// reports each outcome to the envelope's reply subject when one is set.
type Runner struct {
	queue    Queue
	router   Router
	reporter report.Reporter
}

// NewRunner creates a Runner. A nil reporter disables result delivery.
func NewRunner(q Queue, router Router, reporter report.Reporter) *Runner {
	if reporter == nil {
		reporter = &report.NoOpReporter{}
	}
	return &Runner{queue: q, router: router, reporter: reporter}
}

// Run consumes the target's queue until ctx is done or a handler fault
// occurs. Recoverable routing failures are reported and acknowledged; a
// handler fault stops the runner with the fault so the hosting process can
// terminate without acknowledging the envelope.
func (r *Runner) Run(ctx context.Context, target string) error {
	return r.queue.Consume(ctx, target, r.process)
}

func (r *Runner) process(ctx context.Context, env *dispatcher.Envelope) error {
	outcome, err := r.router.Route(ctx, env)
	if err != nil {
		return fmt.Errorf("%s - %w", runnerLogPrefix, err)
	}

	if env.ReplyTo != "" {
		if rerr := r.reporter.Report(ctx, env.ReplyTo, outcome); rerr != nil {
			slog.Warn(fmt.Sprintf("%s - failed to report outcome for key %s: %v", runnerLogPrefix, env.Key, rerr))
		}
	}
	return nil
}
