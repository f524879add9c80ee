// Package client is the enqueue API producers use to dispatch notification
// lifecycle commands.
package client

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/notifyhub/notifications-dispatch/pkg/commsutil"
	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
	"github.com/notifyhub/notifications-dispatch/pkg/notification"
	"github.com/notifyhub/notifications-dispatch/pkg/queue"
	"github.com/notifyhub/notifications-dispatch/pkg/resolver"
)

const logPrefix = "client:enqueue"

// Receiver is a caller-owned result sink, invoked at most once per enqueued
// envelope. code is 0 for success, -1 for failure; detail is nil on success.
type Receiver interface {
	OnResult(code int, detail *dispatcher.ErrorDetail)
}

// ReceiverFunc adapts a function to the Receiver interface.
type ReceiverFunc func(code int, detail *dispatcher.ErrorDetail)

// OnResult calls the function.
func (f ReceiverFunc) OnResult(code int, detail *dispatcher.ErrorDetail) {
	f(code, detail)
}

// Client dispatches envelopes to the currently registered handler endpoint.
// Enqueue methods are safe for concurrent use; they return immediately with
// no result value. When no handler endpoint resolves, the envelope is dropped
// with a warning and the receiver is never invoked; dispatch is best-effort
// when no handler is installed.
type Client struct {
	nc       *comms.Conn
	queue    queue.Queue
	resolver resolver.Resolver
}

// New creates a Client. nc may be nil when no receivers will be used (e.g.
// fully in-process setups on a memory queue).
func New(nc *comms.Conn, q queue.Queue, r resolver.Resolver) *Client {
	return &Client{nc: nc, queue: q, resolver: r}
}

// EnqueuePresent dispatches a "present notification" command.
func (c *Client) EnqueuePresent(ctx context.Context, n *notification.Notification, behavior *notification.Behavior, receiver Receiver) {
	c.enqueue(ctx, dispatcher.NewPresentEnvelope(n, behavior), receiver)
}

// EnqueueReceive dispatches a "notification received" command.
func (c *Client) EnqueueReceive(ctx context.Context, n *notification.Notification, receiver Receiver) {
	c.enqueue(ctx, dispatcher.NewReceiveEnvelope(n), receiver)
}

// EnqueueDismiss dispatches a "dismiss notification" command.
func (c *Client) EnqueueDismiss(ctx context.Context, identifier string, receiver Receiver) {
	c.enqueue(ctx, dispatcher.NewDismissEnvelope(identifier), receiver)
}

// EnqueueDismissAll dispatches a "dismiss all notifications" command.
func (c *Client) EnqueueDismissAll(ctx context.Context, receiver Receiver) {
	c.enqueue(ctx, dispatcher.NewDismissAllEnvelope(), receiver)
}

// EnqueueResponse dispatches a "notification response received" command.
func (c *Client) EnqueueResponse(ctx context.Context, resp *notification.Response, receiver Receiver) {
	c.enqueue(ctx, dispatcher.NewResponseEnvelope(resp), receiver)
}

// EnqueueDropped dispatches a "notifications dropped" command.
func (c *Client) EnqueueDropped(ctx context.Context, receiver Receiver) {
	c.enqueue(ctx, dispatcher.NewDroppedEnvelope(), receiver)
}

func (c *Client) enqueue(ctx context.Context, env *dispatcher.Envelope, receiver Receiver) {
	// Resolution is fresh per enqueue; the registered handler may change
	// between calls.
	endpoint, err := c.resolver.Resolve(ctx, env.Action)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to resolve handler for action %s: %v", logPrefix, env.Action, err))
		return
	}
	if endpoint == nil {
		slog.Warn(fmt.Sprintf("%s - no handler registered for action %s (envelope %s dropped)", logPrefix, env.Action, env.Key))
		return
	}

	var sub *comms.Subscription
	if receiver != nil {
		sub, err = c.subscribeReceiver(receiver)
		if err != nil {
			slog.Warn(fmt.Sprintf("%s - failed to set up receiver for %s: %v", logPrefix, env.Key, err))
		} else {
			env.ReplyTo = sub.Subject
		}
	}

	if err := c.queue.Submit(ctx, endpoint.Name, env); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to submit %s to target %s: %v", logPrefix, env.Key, endpoint.Name, err))
		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

// subscribeReceiver subscribes a one-shot inbox that forwards the decoded
// outcome to the receiver.
func (c *Client) subscribeReceiver(receiver Receiver) (*comms.Subscription, error) {
	if c.nc == nil {
		return nil, fmt.Errorf("%s - receiver requires a comms connection", logPrefix)
	}

	inbox := comms.NewInbox()
	sub, err := c.nc.Subscribe(inbox, func(msg *comms.Msg) {
		var outcome dispatcher.Outcome
		if err := commsutil.DecodePayload(msg.Data, &outcome); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode outcome on %s: %v", logPrefix, msg.Subject, err))
			return
		}
		receiver.OnResult(outcome.Code, outcome.Exception)
	})
	if err != nil {
		return nil, err
	}
	if err := sub.AutoUnsubscribe(1); err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	return sub, nil
}
