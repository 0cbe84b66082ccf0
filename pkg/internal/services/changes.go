package services

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	ChangeOpInsert = "insert"
	ChangeOpUpdate = "update"
	ChangeOpDelete = "delete"
)

// ChangeEvent tells subscribers that a testimonial row changed. It is an
// invalidation signal, not a delta: consumers are expected to re-list
// instead of patching local state from the payload.
type ChangeEvent struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

var changeStream = struct {
	sync.Mutex
	nextID      uint64
	subscribers map[uint64]chan ChangeEvent
}{subscribers: make(map[uint64]chan ChangeEvent)}

// SubscribeChanges registers a listener on the testimonial change stream.
// The returned cancel func must be called to release the subscription.
func SubscribeChanges() (<-chan ChangeEvent, func()) {
	changeStream.Lock()
	defer changeStream.Unlock()

	id := changeStream.nextID
	changeStream.nextID++

	out := make(chan ChangeEvent, 16)
	changeStream.subscribers[id] = out

	return out, func() {
		changeStream.Lock()
		defer changeStream.Unlock()
		if ch, ok := changeStream.subscribers[id]; ok {
			delete(changeStream.subscribers, id)
			close(ch)
		}
	}
}

// EmitChange fans an event out to every subscriber without blocking the
// mutating call path. A subscriber that cannot keep up misses events, which
// is tolerable since events only mean "reload".
func EmitChange(op, id string) {
	changeStream.Lock()
	defer changeStream.Unlock()

	for _, ch := range changeStream.subscribers {
		select {
		case ch <- ChangeEvent{Op: op, ID: id}:
		default:
			log.Warn().Str("op", op).Str("id", id).Msg("A change stream subscriber is lagging, event dropped...")
		}
	}
}
