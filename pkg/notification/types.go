// Package notification defines the wire types for notifications flowing
// through the dispatch service. Presentation and storage of these objects
// happen in handler implementations; this package only carries them.
package notification

import (
	"encoding/json"
	"time"
)

// DefaultActionIdentifier is the action identifier of a plain tap response.
const DefaultActionIdentifier = "default"

// Request describes a single notification request.
type Request struct {
	Identifier string          `json:"identifier"`
	Title      string          `json:"title,omitempty"`
	Body       string          `json:"body,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Notification pairs a request with the time it materialized.
type Notification struct {
	Request *Request  `json:"request"`
	Date    time.Time `json:"date"`
}

// Identifier returns the notification's request identifier, or "" when the
// notification or its request is absent.
func (n *Notification) Identifier() string {
	if n == nil || n.Request == nil {
		return ""
	}
	return n.Request.Identifier
}

// Behavior constrains how a notification may be presented.
type Behavior struct {
	ShouldShowAlert bool `json:"shouldShowAlert"`
	ShouldPlaySound bool `json:"shouldPlaySound"`
	ShouldSetBadge  bool `json:"shouldSetBadge"`
}

// Response is a user's reaction to a presented notification.
type Response struct {
	ActionIdentifier string        `json:"actionIdentifier"`
	UserText         string        `json:"userText,omitempty"`
	Notification     *Notification `json:"notification"`
}
