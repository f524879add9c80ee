package dispatcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notifyhub/notifications-dispatch/pkg/notification"
)

// Handler is the set of callbacks envelopes route to, one per envelope type.
// Implementations embed BaseHandler and override only the callbacks they care
// about; a partial implementation is always valid.
//
// Returning a *Error reports a recoverable failure to the caller's receiver.
// Returning any other error is a handler fault and terminates the hosting
// process.
type Handler interface {
	// OnNotificationPresent presents a notification. behavior may be nil.
	OnNotificationPresent(ctx context.Context, n *notification.Notification, behavior *notification.Behavior) error
	// OnNotificationReceived is called when a new notification arrives.
	OnNotificationReceived(ctx context.Context, n *notification.Notification) error
	// OnNotificationDismiss dismisses the notification with the given identifier.
	OnNotificationDismiss(ctx context.Context, identifier string) error
	// OnDismissAllNotifications dismisses all notifications.
	OnDismissAllNotifications(ctx context.Context) error
	// OnNotificationResponseReceived is called when a user responds to a notification.
	OnNotificationResponseReceived(ctx context.Context, resp *notification.Response) error
	// OnNotificationsDropped is called when the backend reports undelivered notifications.
	OnNotificationsDropped(ctx context.Context) error
}

// BaseHandler is a no-op Handler. Embed it to override callbacks selectively.
type BaseHandler struct{}

func (BaseHandler) OnNotificationPresent(context.Context, *notification.Notification, *notification.Behavior) error {
	return nil
}

func (BaseHandler) OnNotificationReceived(context.Context, *notification.Notification) error {
	return nil
}

func (BaseHandler) OnNotificationDismiss(context.Context, string) error {
	return nil
}

func (BaseHandler) OnDismissAllNotifications(context.Context) error {
	return nil
}

func (BaseHandler) OnNotificationResponseReceived(context.Context, *notification.Response) error {
	return nil
}

func (BaseHandler) OnNotificationsDropped(context.Context) error {
	return nil
}

const loggingHandlerLogPrefix = "dispatcher:logging_handler"

// LoggingHandler logs every callback it receives. It is the server's default
// handler when no application handler is wired in.
type LoggingHandler struct {
	BaseHandler
}

func (LoggingHandler) OnNotificationPresent(_ context.Context, n *notification.Notification, behavior *notification.Behavior) error {
	slog.Info(fmt.Sprintf("%s - present id=%s behavior=%v", loggingHandlerLogPrefix, n.Identifier(), behavior))
	return nil
}

func (LoggingHandler) OnNotificationReceived(_ context.Context, n *notification.Notification) error {
	slog.Info(fmt.Sprintf("%s - received id=%s", loggingHandlerLogPrefix, n.Identifier()))
	return nil
}

func (LoggingHandler) OnNotificationDismiss(_ context.Context, identifier string) error {
	slog.Info(fmt.Sprintf("%s - dismiss id=%s", loggingHandlerLogPrefix, identifier))
	return nil
}

func (LoggingHandler) OnDismissAllNotifications(context.Context) error {
	slog.Info(fmt.Sprintf("%s - dismiss all", loggingHandlerLogPrefix))
	return nil
}

func (LoggingHandler) OnNotificationResponseReceived(_ context.Context, resp *notification.Response) error {
	slog.Info(fmt.Sprintf("%s - response action=%s id=%s", loggingHandlerLogPrefix, resp.ActionIdentifier, resp.Notification.Identifier()))
	return nil
}

func (LoggingHandler) OnNotificationsDropped(context.Context) error {
	slog.Info(fmt.Sprintf("%s - notifications dropped", loggingHandlerLogPrefix))
	return nil
}
