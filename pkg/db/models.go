package db

import "time"

// HandlerEndpoint represents a row in the handler_endpoints table: one
// installed handler component able to accept envelopes for an action.
type HandlerEndpoint struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Name       string    `json:"name"`
	Subject    string    `json:"subject"`
	Protocol   string    `json:"protocol"`
	Enabled    bool      `json:"enabled"`
	Registered time.Time `json:"registered"`
	Modified   time.Time `json:"modified"`
}
