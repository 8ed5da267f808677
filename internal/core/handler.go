package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// welcomeText is the private greeting sent to a joining connection.
const welcomeText = "Welcome To Chatbox"

type connState int

const (
	stateUnjoined connState = iota
	stateJoined
	stateClosed // terminal
)

// Sealer encrypts system-announcement text before transmission. Only bot
// announcements pass through it; user chat messages stay plaintext.
type Sealer interface {
	Seal(plaintext string) (string, error)
}

// TicketVerifier checks a gateway-issued entry ticket against the username
// and room a connection is joining.
type TicketVerifier interface {
	Verify(ticket, username, room string) error
}

// ConnectionHandler drives one connection through the
// Unjoined -> Joined -> Closed lifecycle, updating the registry and firing
// broadcasts. The transport invokes it from the connection's read loop;
// all methods are safe for concurrent use and none raise across the
// connection boundary: failed lookups degrade to no-ops.
type ConnectionHandler struct {
	connID      string
	botName     string
	registry    *SessionRegistry
	broadcaster *Broadcaster
	sealer      Sealer         // optional
	tickets     TicketVerifier // optional
	log         *zerolog.Logger

	mu    sync.Mutex
	state connState
}

// NewConnectionHandler constructs the handler for a single connection.
// sealer and tickets may be nil, disabling announcement sealing and
// ticket checks respectively.
func NewConnectionHandler(connID, botName string, registry *SessionRegistry, broadcaster *Broadcaster, sealer Sealer, tickets TicketVerifier, logger *zerolog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connID:      connID,
		botName:     botName,
		registry:    registry,
		broadcaster: broadcaster,
		sealer:      sealer,
		tickets:     tickets,
		log:         logger,
	}
}

// JoinRoom registers the connection in a room and announces it. A join
// while already joined is treated as leave-then-join so a connection
// never holds two sessions. After the session is registered, three
// broadcasts fire in order: the private welcome, the entry announcement
// to everyone else, and the roster update to the whole room.
func (h *ConnectionHandler) JoinRoom(username, room, ticket string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == stateClosed {
		return
	}

	if h.tickets != nil && ticket != "" {
		if err := h.tickets.Verify(ticket, username, room); err != nil {
			h.log.Warn().
				Err(err).
				Str("conn_id", h.connID).
				Str("room", NormalizeRoom(room)).
				Msg("rejected join with bad entry ticket")
			h.broadcaster.SendTo(h.connID, EventError, ErrorPayload{
				Code: ErrCodeBadTicket,
				Msg:  "invalid entry ticket",
			})
			return
		}
	}

	if h.state == stateJoined {
		h.leaveLocked()
	}

	sess := h.registry.Join(h.connID, username, room)
	h.state = stateJoined

	h.log.Info().
		Str("conn_id", h.connID).
		Str("username", sess.Username).
		Str("room", sess.Room).
		Msg("connection joined room")

	h.broadcaster.SendTo(h.connID, EventMessage, h.announcement(welcomeText))
	h.broadcaster.SendToRoom(sess.Room, EventMessage,
		h.announcement(sess.Username+" has entered the chat room"), h.connID)
	h.roster(sess.Room)
}

// ChatMessage relays a chat line to the sender's room, including the
// sender. Messages arriving before a join, or racing a disconnect, are
// dropped silently.
func (h *ConnectionHandler) ChatMessage(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == stateClosed {
		return
	}

	sess, ok := h.registry.Get(h.connID)
	if !ok {
		return
	}

	h.broadcaster.SendToRoom(sess.Room, EventMessage,
		payloadFor(NewChatMessage(sess.Username, text)), "")
}

// Disconnect closes the handler. Safe to call more than once; only the
// call that finds a live session broadcasts the departure.
func (h *ConnectionHandler) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == stateClosed {
		return
	}
	h.state = stateClosed

	h.leaveLocked()
	h.broadcaster.Detach(h.connID)
}

func (h *ConnectionHandler) leaveLocked() {
	sess, ok := h.registry.Remove(h.connID)
	if !ok {
		return
	}

	h.log.Info().
		Str("conn_id", h.connID).
		Str("username", sess.Username).
		Str("room", sess.Room).
		Msg("connection left room")

	h.broadcaster.SendToRoom(sess.Room, EventMessage,
		h.announcement(sess.Username+" has left the chat"), "")
	h.roster(sess.Room)
}

func (h *ConnectionHandler) roster(room string) {
	h.broadcaster.SendToRoom(room, EventRoomUsers, RoomUsersPayload{
		Room:  room,
		Users: h.registry.MembersOf(room),
	}, "")
}

// announcement builds a bot message, sealing the text when a sealer is
// configured. A sealing failure falls back to plaintext rather than
// losing the announcement.
func (h *ConnectionHandler) announcement(text string) MessagePayload {
	if h.sealer != nil {
		sealed, err := h.sealer.Seal(text)
		if err != nil {
			h.log.Error().Err(err).Msg("failed to seal announcement")
		} else {
			text = sealed
		}
	}
	return payloadFor(NewChatMessage(h.botName, text))
}
