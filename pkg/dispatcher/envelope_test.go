package dispatcher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/notifyhub/notifications-dispatch/pkg/notification"
)

func TestBuildRoutingKey(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		operation  string
		want       string
	}{
		{"present", "abc-123", "present", "notifications://notifications/abc-123/present"},
		{"dismiss", "n1", "dismiss", "notifications://notifications/n1/dismiss"},
		{"no identifier", "", "dismissAll", "notifications://notifications/dismissAll"},
		{"dropped", "", "dropped", "notifications://notifications/dropped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRoutingKey(tt.identifier, tt.operation)
			if got != tt.want {
				t.Errorf("BuildRoutingKey(%q, %q) = %q, want %q", tt.identifier, tt.operation, got, tt.want)
			}
		})
	}
}

func TestNewPresentEnvelope(t *testing.T) {
	n := &notification.Notification{
		Request: &notification.Request{Identifier: "abc", Title: "Hello"},
		Date:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	behavior := &notification.Behavior{ShouldShowAlert: true}

	env := NewPresentEnvelope(n, behavior)

	if env.Action != EventAction {
		t.Errorf("action = %q, want %q", env.Action, EventAction)
	}
	if env.Type != TypePresent {
		t.Errorf("type = %q, want %q", env.Type, TypePresent)
	}
	if env.Key != "notifications://notifications/abc/present" {
		t.Errorf("key = %q", env.Key)
	}

	var p PresentPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if p.Notification == nil || p.Notification.Identifier() != "abc" {
		t.Errorf("payload notification = %+v", p.Notification)
	}
	if p.Behavior == nil || !p.Behavior.ShouldShowAlert {
		t.Errorf("payload behavior = %+v", p.Behavior)
	}
}

func TestNewPresentEnvelope_NilBehavior(t *testing.T) {
	n := &notification.Notification{Request: &notification.Request{Identifier: "abc"}}

	env := NewPresentEnvelope(n, nil)

	var p PresentPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if p.Behavior != nil {
		t.Errorf("expected nil behavior, got %+v", p.Behavior)
	}
}

func TestNewDismissEnvelope(t *testing.T) {
	env := NewDismissEnvelope("n-42")

	if env.Type != TypeDismiss {
		t.Errorf("type = %q, want %q", env.Type, TypeDismiss)
	}
	if env.Key != "notifications://notifications/n-42/dismiss" {
		t.Errorf("key = %q", env.Key)
	}

	var p DismissPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if p.Identifier != "n-42" {
		t.Errorf("identifier = %q, want %q", p.Identifier, "n-42")
	}
}

func TestNewDismissEnvelope_EmptyIdentifier(t *testing.T) {
	// Constructors never validate; an empty identifier still builds an
	// envelope and the router rejects it later.
	env := NewDismissEnvelope("")

	if env.Key != "notifications://notifications/dismiss" {
		t.Errorf("key = %q", env.Key)
	}
	var p DismissPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if p.Identifier != "" {
		t.Errorf("identifier = %q, want empty", p.Identifier)
	}
}

func TestNewDismissAllEnvelope(t *testing.T) {
	env := NewDismissAllEnvelope()

	if env.Type != TypeDismissAll {
		t.Errorf("type = %q, want %q", env.Type, TypeDismissAll)
	}
	if len(env.Payload) != 0 {
		t.Errorf("expected no payload, got %s", env.Payload)
	}
}

func TestNewDroppedEnvelope(t *testing.T) {
	env := NewDroppedEnvelope()

	if env.Type != TypeDropped {
		t.Errorf("type = %q, want %q", env.Type, TypeDropped)
	}
	if env.Key != "notifications://notifications/dropped" {
		t.Errorf("key = %q", env.Key)
	}
}

func TestNewResponseEnvelope(t *testing.T) {
	resp := &notification.Response{
		ActionIdentifier: notification.DefaultActionIdentifier,
		Notification: &notification.Notification{
			Request: &notification.Request{Identifier: "tapped"},
		},
	}

	env := NewResponseEnvelope(resp)

	if env.Type != TypeResponse {
		t.Errorf("type = %q, want %q", env.Type, TypeResponse)
	}
	if env.Key != "notifications://notifications/tapped/response" {
		t.Errorf("key = %q", env.Key)
	}

	var p ResponsePayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if p.Response == nil || p.Response.ActionIdentifier != notification.DefaultActionIdentifier {
		t.Errorf("payload response = %+v", p.Response)
	}
}

func TestEnvelope_JSONRoundTrip(t *testing.T) {
	env := NewReceiveEnvelope(&notification.Notification{
		Request: &notification.Request{Identifier: "r1", Body: "ping"},
	})
	env.ReplyTo = "_INBOX.abc"

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded Envelope
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if decoded.Action != EventAction || decoded.Type != TypeReceive {
		t.Errorf("decoded envelope = %+v", decoded)
	}
	if decoded.ReplyTo != "_INBOX.abc" {
		t.Errorf("replyTo = %q", decoded.ReplyTo)
	}
	if decoded.Key != env.Key {
		t.Errorf("key = %q, want %q", decoded.Key, env.Key)
	}
}

func TestEnvelope_OmitsEmptyOptionalFields(t *testing.T) {
	env := NewDismissAllEnvelope()
	env.Key = ""

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, field := range []string{"key", "payload", "replyTo"} {
		if _, ok := decoded[field]; ok {
			t.Errorf("expected %q to be omitted, got %v", field, decoded[field])
		}
	}
}
