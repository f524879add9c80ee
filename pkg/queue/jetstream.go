package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/notifyhub/notifications-dispatch/pkg/commsutil"
	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
)

const jetStreamLogPrefix = "queue:jetstream"

// HeaderRoutingKey carries the envelope's routing key on the transport
// message for tracing.
const HeaderRoutingKey = "Notify-Key"

// JetStreamQueue is a durable Queue backed by a JetStream work-queue stream.
// Each target gets its own subject under the dispatch prefix and its own
// durable pull consumer with explicit acks and a single outstanding delivery,
// which yields FIFO, one-at-a-time, at-least-once semantics across process
// restarts.
type JetStreamQueue struct {
	js     comms.JetStreamContext
	stream string
}

// NewJetStreamQueue creates a JetStreamQueue on the given connection,
// creating the stream if it does not exist yet.
func NewJetStreamQueue(nc *comms.Conn, stream string) (*JetStreamQueue, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("%s - failed to get JetStream context: %w", jetStreamLogPrefix, err)
	}

	if _, err := js.StreamInfo(stream); err != nil {
		if !errors.Is(err, comms.ErrStreamNotFound) {
			return nil, fmt.Errorf("%s - failed to look up stream %s: %w", jetStreamLogPrefix, stream, err)
		}
		_, err = js.AddStream(&comms.StreamConfig{
			Name:      stream,
			Subjects:  []string{commsutil.SubjectDispatchPrefix + ".>"},
			Retention: comms.WorkQueuePolicy,
			Storage:   comms.FileStorage,
		})
		if err != nil {
			return nil, fmt.Errorf("%s - failed to create stream %s: %w", jetStreamLogPrefix, stream, err)
		}
		slog.Info(fmt.Sprintf("%s - Created stream %s", jetStreamLogPrefix, stream))
	}

	return &JetStreamQueue{js: js, stream: stream}, nil
}

// Submit publishes the envelope to the target's dispatch subject.
func (q *JetStreamQueue) Submit(ctx context.Context, target string, env *dispatcher.Envelope) error {
	data, err := commsutil.EncodePayload(env)
	if err != nil {
		return fmt.Errorf("%s - failed to encode envelope: %w", jetStreamLogPrefix, err)
	}

	msg := comms.NewMsg(commsutil.BuildDispatchSubject(target))
	msg.Data = data
	if env.Key != "" {
		msg.Header.Set(HeaderRoutingKey, env.Key)
	}

	if _, err := q.js.PublishMsg(msg, comms.Context(ctx)); err != nil {
		return fmt.Errorf("%s - failed to publish to %s: %w", jetStreamLogPrefix, msg.Subject, err)
	}
	return nil
}

// Consume drains the target's subject through a durable pull consumer. It
// blocks until ctx is done or fn returns an error; in the latter case the
// in-flight envelope is left unacknowledged for redelivery after restart.
func (q *JetStreamQueue) Consume(ctx context.Context, target string, fn HandleFunc) error {
	subject := commsutil.BuildDispatchSubject(target)
	durable := "drain_" + commsutil.SanitizeToken(target)

	sub, err := q.js.PullSubscribe(subject, durable,
		comms.AckExplicit(),
		comms.MaxAckPending(1),
	)
	if err != nil {
		return fmt.Errorf("%s - failed to subscribe to %s: %w", jetStreamLogPrefix, subject, err)
	}
	defer sub.Unsubscribe()

	slog.Info(fmt.Sprintf("%s - Draining %s as %s", jetStreamLogPrefix, subject, durable))

	for {
		msgs, err := sub.Fetch(1, comms.Context(ctx))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			if errors.Is(err, comms.ErrTimeout) {
				continue
			}
			return fmt.Errorf("%s - fetch from %s failed: %w", jetStreamLogPrefix, subject, err)
		}

		for _, msg := range msgs {
			var env dispatcher.Envelope
			if err := commsutil.DecodePayload(msg.Data, &env); err != nil {
				// Undecodable message: terminal, never routable.
				slog.Error(fmt.Sprintf("%s - failed to decode envelope on %s: %v", jetStreamLogPrefix, subject, err))
				msg.Term()
				continue
			}

			if err := fn(ctx, &env); err != nil {
				// Fatal: leave the message unacknowledged so the queue
				// redelivers it after the process restarts.
				return err
			}

			if err := msg.Ack(); err != nil {
				slog.Warn(fmt.Sprintf("%s - ack failed on %s: %v", jetStreamLogPrefix, subject, err))
			}
		}
	}
}
