package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sender delivers one protocol event to a single connection.
// Implementations must be safe for concurrent use and should fail fast
// instead of blocking on a slow connection.
type Sender interface {
	Send(event string, payload any) error
}

// Protocol event names, matching the legacy client.
const (
	EventMessage   = "message"
	EventRoomUsers = "roomUsers"
	EventError     = "error"
)

// Broadcaster fans events out to every connection joined to a room.
// Delivery is best-effort per connection: a failed send is logged and
// skipped, never aborting the rest of the batch.
type Broadcaster struct {
	registry *SessionRegistry
	log      *zerolog.Logger

	mu      sync.RWMutex
	senders map[string]Sender
}

// NewBroadcaster constructs a broadcaster over the given registry.
func NewBroadcaster(registry *SessionRegistry, logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		log:      logger,
		senders:  make(map[string]Sender),
	}
}

// Attach registers the sender for a connection.
func (b *Broadcaster) Attach(connID string, sender Sender) {
	b.mu.Lock()
	b.senders[connID] = sender
	b.mu.Unlock()
}

// Detach forgets the sender for a connection.
func (b *Broadcaster) Detach(connID string) {
	b.mu.Lock()
	delete(b.senders, connID)
	b.mu.Unlock()
}

// SendTo delivers an event to a single connection. Unknown connections
// are ignored.
func (b *Broadcaster) SendTo(connID, event string, payload any) {
	b.send(connID, event, payload)
}

// SendToRoom delivers an event to every member of room, optionally
// skipping one connection (the sender of a join announcement). The
// membership snapshot is taken before any send happens, so no registry
// lock is held while writing to connections.
func (b *Broadcaster) SendToRoom(room, event string, payload any, exclude string) {
	for _, s := range b.registry.SessionsIn(room) {
		if s.ConnID == exclude {
			continue
		}
		b.send(s.ConnID, event, payload)
	}
}

func (b *Broadcaster) send(connID, event string, payload any) {
	b.mu.RLock()
	sender, ok := b.senders[connID]
	b.mu.RUnlock()
	if !ok {
		return
	}

	if err := sender.Send(event, payload); err != nil {
		b.log.Warn().
			Err(err).
			Str("conn_id", connID).
			Str("event", event).
			Msg("dropping event for connection")
	}
}
