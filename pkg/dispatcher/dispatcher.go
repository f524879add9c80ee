package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

const logPrefix = "dispatcher:route"

// Dispatcher routes envelopes to the callbacks of a single Handler.
type Dispatcher struct {
	handler Handler
}

// NewDispatcher creates a new Dispatcher around the given handler.
func NewDispatcher(h Handler) *Dispatcher {
	return &Dispatcher{handler: h}
}

// Route decodes an envelope, invokes the matching handler callback, and
// converts the result into an outcome.
//
// Recoverable conditions (wrong action tag, unrecognized type, missing or
// ill-typed payload slot, a *Error returned by the callback) are caught here
// exactly once, logged, and returned as a failure outcome. Any other callback
// error is a handler fault: Route returns it as the second value and the
// caller is expected to let it take the process down rather than mask it.
func (d *Dispatcher) Route(ctx context.Context, env *Envelope) (*Outcome, error) {
	err := d.route(ctx, env)
	if err == nil {
		return SuccessOutcome(), nil
	}

	var derr *Error
	if errors.As(err, &derr) {
		slog.Error(fmt.Sprintf("%s - action %s failed: %s", logPrefix, env.Action, derr.Message))
		return FailureOutcome(derr), nil
	}
	return nil, fmt.Errorf("%s - handler fault on type %s: %w", logPrefix, env.Type, err)
}

func (d *Dispatcher) route(ctx context.Context, env *Envelope) error {
	if env.Action != EventAction {
		return NewError(CodeInvalidAction, "received envelope of unrecognized action: %s", env.Action)
	}

	switch env.Type {
	case TypePresent:
		var p PresentPayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		if p.Notification == nil {
			return missingSlot(env.Type, "notification")
		}
		return d.handler.OnNotificationPresent(ctx, p.Notification, p.Behavior)

	case TypeReceive:
		var p ReceivePayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		if p.Notification == nil {
			return missingSlot(env.Type, "notification")
		}
		return d.handler.OnNotificationReceived(ctx, p.Notification)

	case TypeDismiss:
		var p DismissPayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		if p.Identifier == "" {
			return missingSlot(env.Type, "id")
		}
		return d.handler.OnNotificationDismiss(ctx, p.Identifier)

	case TypeDismissAll:
		return d.handler.OnDismissAllNotifications(ctx)

	case TypeDropped:
		return d.handler.OnNotificationsDropped(ctx)

	case TypeResponse:
		var p ResponsePayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		if p.Response == nil {
			return missingSlot(env.Type, "response")
		}
		if p.Response.Notification == nil {
			return missingSlot(env.Type, "response.notification")
		}
		return d.handler.OnNotificationResponseReceived(ctx, p.Response)

	default:
		return NewError(CodeUnrecognizedType, "received envelope of unrecognized type: %s", env.Type)
	}
}

// decodePayload unmarshals the envelope payload with strict slot typing.
func decodePayload(env *Envelope, v interface{}) error {
	if len(env.Payload) == 0 {
		return NewError(CodeInvalidArgument, "envelope of type %s has no payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return NewError(CodeInvalidArgument, "failed to decode %s payload: %v", env.Type, err)
	}
	return nil
}

func missingSlot(envType, slot string) *Error {
	return NewError(CodeInvalidArgument, "envelope of type %s is missing required slot %q", envType, slot)
}
