// Package resolver locates the single registered handler endpoint for a
// dispatch action.
package resolver

import "context"

// Endpoint is the resolved handler endpoint: the component currently
// registered to process envelopes for an action.
type Endpoint struct {
	// Name identifies the endpoint and doubles as its dispatch target.
	Name string
	// Subject is the comms subject the endpoint's work queue lives on.
	Subject string
	// Protocol is the envelope protocol version the endpoint declares.
	Protocol string
}

// Resolver answers "which handler endpoint is currently registered for this
// action". Resolution happens fresh on every call; the answer may
// legitimately change between calls, so implementations must not cache.
//
// A nil endpoint with a nil error is the not-found signal; callers treat it
// as a logged, silent drop. A non-nil error indicates an infrastructure
// failure, not absence.
type Resolver interface {
	Resolve(ctx context.Context, action string) (*Endpoint, error)
}

// Static is a Resolver over a fixed action → endpoint map, for embedded
// single-binary use and tests.
type Static struct {
	endpoints map[string]Endpoint
}

// NewStatic creates a Static resolver. A nil or empty map resolves nothing.
func NewStatic(endpoints map[string]Endpoint) *Static {
	return &Static{endpoints: endpoints}
}

// Resolve returns the endpoint registered for action, or nil when none is.
func (s *Static) Resolve(_ context.Context, action string) (*Endpoint, error) {
	if ep, ok := s.endpoints[action]; ok {
		e := ep
		return &e, nil
	}
	return nil, nil
}
