// Package dispatcher encodes notification lifecycle commands into envelopes
// and routes them to handler callbacks.
package dispatcher

import (
	"encoding/json"
	"fmt"

	"github.com/notifyhub/notifications-dispatch/pkg/notification"
)

// EventAction is the single transport action tag this service accepts.
// Envelopes carrying any other action are rejected at routing time.
const EventAction = "notifications.event"

// Envelope types (discriminators). Closed set: each envelope carries exactly
// one, selecting the handler callback it routes to.
const (
	TypePresent    = "present"
	TypeDismiss    = "dismiss"
	TypeDismissAll = "dismissAll"
	TypeReceive    = "receive"
	TypeDropped    = "dropped"
	TypeResponse   = "response"
)

// Result codes reported to receivers.
const (
	SuccessCode           = 0
	ExceptionOccurredCode = -1
)

// ExceptionKey is the fixed key the error detail travels under in a failure
// result bundle.
const ExceptionKey = "exception"

// Envelope is the JSON unit enqueued for one dispatch operation.
type Envelope struct {
	Action  string          `json:"action"`
	Type    string          `json:"type"`
	Key     string          `json:"key,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	// ReplyTo is the comms subject the outcome is published to. Empty means
	// the caller supplied no receiver.
	ReplyTo string `json:"replyTo,omitempty"`
}

// PresentPayload is the payload of a "present" envelope.
type PresentPayload struct {
	Notification *notification.Notification `json:"notification"`
	Behavior     *notification.Behavior     `json:"behavior,omitempty"`
}

// DismissPayload is the payload of a "dismiss" envelope.
type DismissPayload struct {
	Identifier string `json:"id"`
}

// ReceivePayload is the payload of a "receive" envelope.
type ReceivePayload struct {
	Notification *notification.Notification `json:"notification"`
}

// ResponsePayload is the payload of a "response" envelope.
type ResponsePayload struct {
	Response *notification.Response `json:"response"`
}

// BuildRoutingKey builds the opaque URI-shaped key attached to an envelope,
// e.g. "notifications://notifications/<identifier>/present". The key exists
// for tracing and transport-level collision avoidance only; routing never
// consults it.
func BuildRoutingKey(identifier, operation string) string {
	if identifier == "" {
		return fmt.Sprintf("notifications://notifications/%s", operation)
	}
	return fmt.Sprintf("notifications://notifications/%s/%s", identifier, operation)
}

// NewPresentEnvelope builds a "present notification" envelope. Constructors
// never validate payload contents; the router does.
func NewPresentEnvelope(n *notification.Notification, behavior *notification.Behavior) *Envelope {
	payload, _ := json.Marshal(PresentPayload{Notification: n, Behavior: behavior})
	return &Envelope{
		Action:  EventAction,
		Type:    TypePresent,
		Key:     BuildRoutingKey(n.Identifier(), TypePresent),
		Payload: payload,
	}
}

// NewDismissEnvelope builds a "dismiss notification" envelope.
func NewDismissEnvelope(identifier string) *Envelope {
	payload, _ := json.Marshal(DismissPayload{Identifier: identifier})
	return &Envelope{
		Action:  EventAction,
		Type:    TypeDismiss,
		Key:     BuildRoutingKey(identifier, TypeDismiss),
		Payload: payload,
	}
}

// NewDismissAllEnvelope builds a "dismiss all notifications" envelope.
func NewDismissAllEnvelope() *Envelope {
	return &Envelope{
		Action: EventAction,
		Type:   TypeDismissAll,
		Key:    BuildRoutingKey("", TypeDismissAll),
	}
}

// NewReceiveEnvelope builds a "notification received" envelope.
func NewReceiveEnvelope(n *notification.Notification) *Envelope {
	payload, _ := json.Marshal(ReceivePayload{Notification: n})
	return &Envelope{
		Action:  EventAction,
		Type:    TypeReceive,
		Key:     BuildRoutingKey(n.Identifier(), TypeReceive),
		Payload: payload,
	}
}

// NewResponseEnvelope builds a "notification response received" envelope.
func NewResponseEnvelope(resp *notification.Response) *Envelope {
	payload, _ := json.Marshal(ResponsePayload{Response: resp})
	identifier := ""
	if resp != nil {
		identifier = resp.Notification.Identifier()
	}
	return &Envelope{
		Action:  EventAction,
		Type:    TypeResponse,
		Key:     BuildRoutingKey(identifier, TypeResponse),
		Payload: payload,
	}
}

// NewDroppedEnvelope builds a "notifications dropped" envelope.
func NewDroppedEnvelope() *Envelope {
	return &Envelope{
		Action: EventAction,
		Type:   TypeDropped,
		Key:    BuildRoutingKey("", TypeDropped),
	}
}
