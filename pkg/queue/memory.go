package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
)

const memoryLogPrefix = "queue:memory"

// defaultMemoryCapacity bounds each per-target buffer in MemoryQueue.
const defaultMemoryCapacity = 1024

// MemoryQueue is a channel-backed Queue for tests and single-process embedded
// use. It preserves FIFO order and one-at-a-time delivery but does not survive
// a restart; an envelope whose HandleFunc fails is lost.
type MemoryQueue struct {
	mu       sync.Mutex
	capacity int
	targets  map[string]chan *dispatcher.Envelope
}

// NewMemoryQueue creates an empty MemoryQueue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		capacity: defaultMemoryCapacity,
		targets:  make(map[string]chan *dispatcher.Envelope),
	}
}

func (q *MemoryQueue) channel(target string) chan *dispatcher.Envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.targets[target]
	if !ok {
		ch = make(chan *dispatcher.Envelope, q.capacity)
		q.targets[target] = ch
	}
	return ch
}

// Submit appends the envelope to the target's buffer without blocking.
func (q *MemoryQueue) Submit(_ context.Context, target string, env *dispatcher.Envelope) error {
	select {
	case q.channel(target) <- env:
		return nil
	default:
		return fmt.Errorf("%s - queue for target %s is full", memoryLogPrefix, target)
	}
}

// Consume drains the target's buffer sequentially until ctx is done or fn
// fails.
func (q *MemoryQueue) Consume(ctx context.Context, target string, fn HandleFunc) error {
	ch := q.channel(target)
	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-ch:
			if err := fn(ctx, env); err != nil {
				return err
			}
		}
	}
}
