package report

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/notifyhub/notifications-dispatch/pkg/commsutil"
	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
)

const commsReporterLogPrefix = "report:comms_reporter"

// CommsReporter publishes outcomes to the envelope's reply subject over COMMS.
type CommsReporter struct {
	nc *comms.Conn
}

// NewCommsReporter creates a new CommsReporter.
func NewCommsReporter(nc *comms.Conn) *CommsReporter {
	return &CommsReporter{nc: nc}
}

// Report publishes the outcome to replyTo. The receiver on the other end is
// invoked at most once per envelope; there is no retry.
func (r *CommsReporter) Report(_ context.Context, replyTo string, outcome *dispatcher.Outcome) error {
	data, err := commsutil.EncodePayload(outcome)
	if err != nil {
		return fmt.Errorf("%s - failed to encode outcome: %w", commsReporterLogPrefix, err)
	}

	if err := r.nc.Publish(replyTo, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsReporterLogPrefix, replyTo, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Reported code=%d to %s", commsReporterLogPrefix, outcome.Code, replyTo))
	return nil
}
