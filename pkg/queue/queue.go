// Package queue provides the durable FIFO work queue envelopes travel
// through, and the runner that drains it into the dispatcher.
package queue

import (
	"context"

	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
)

// HandleFunc processes one delivered envelope. A non-nil return is a fatal
// condition: the envelope stays unacknowledged and consumption stops.
type HandleFunc func(ctx context.Context, env *dispatcher.Envelope) error

// Queue associates envelopes with a dispatch target and guarantees sequential
// at-least-once delivery to a single drain function per target.
//
// Submit is safe for concurrent callers. Consume delivers envelopes for a
// target strictly in submission order, one at a time; an envelope is only
// acknowledged after its HandleFunc returns nil, so a process crash mid-flight
// leaves it available for redelivery (where the implementation is durable).
type Queue interface {
	Submit(ctx context.Context, target string, env *dispatcher.Envelope) error
	Consume(ctx context.Context, target string, fn HandleFunc) error
}
