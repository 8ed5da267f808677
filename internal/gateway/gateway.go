// Package gateway implements the room join/create protocol against the
// room directory, independent of live connections.
package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"chatbox-server/internal/auth"
	"chatbox-server/internal/core"
	"chatbox-server/internal/store"
)

// OutcomeKind tags the result of a validate or create request.
type OutcomeKind int

const (
	// OutcomeEntryGranted carries the parameters for entering the chat.
	OutcomeEntryGranted OutcomeKind = iota
	// OutcomeEntryDenied covers wrong key, missing room and storage
	// failure alike; callers must not be able to tell them apart.
	OutcomeEntryDenied
	// OutcomeMissingFields rejects a create with an empty field.
	OutcomeMissingFields
	// OutcomeRoomExists rejects a create for a name already taken.
	OutcomeRoomExists
)

// Entry holds the session-entry parameters of a granted outcome.
type Entry struct {
	Room     string
	Username string
	RoomID   int64
	Ticket   string
}

// Outcome is a tagged result. The transport layer maps it onto its own
// representation; for the HTTP layer that is a redirect target.
type Outcome struct {
	Kind  OutcomeKind
	Entry *Entry
}

// Gateway gates entry into rooms: it validates keys against the directory
// and creates new rooms with hashed keys.
type Gateway struct {
	dir     store.RoomDirectory
	tickets *auth.Tickets // optional
	keyCost int
	log     *zerolog.Logger
}

// New constructs a gateway. tickets may be nil, in which case granted
// outcomes carry no entry ticket.
func New(dir store.RoomDirectory, tickets *auth.Tickets, keyCost int, logger *zerolog.Logger) *Gateway {
	return &Gateway{
		dir:     dir,
		tickets: tickets,
		keyCost: keyCost,
		log:     logger,
	}
}

// Validate checks a join request against the stored room credential.
// A missing room, a wrong key and a storage failure all yield the same
// denied outcome so the caller cannot probe which rooms exist.
func (g *Gateway) Validate(ctx context.Context, username, roomName, key string) Outcome {
	room := core.NormalizeRoom(roomName)

	rec, err := g.dir.GetRoomByName(ctx, room)
	if err != nil {
		if !errors.Is(err, store.ErrRoomNotFound) {
			g.log.Error().Err(err).Str("room", room).Msg("room lookup failed")
		}
		return Outcome{Kind: OutcomeEntryDenied}
	}

	if err := auth.CompareKey(rec.KeyHash, key); err != nil {
		return Outcome{Kind: OutcomeEntryDenied}
	}

	return g.granted(username, room, rec.ID)
}

// Create registers a new room with a hashed key and grants entry to it.
// A name collision is reported distinctly from a denied entry since it
// carries no security-sensitive information; the storage layer's
// uniqueness constraint also maps here when the check-then-insert race
// is lost.
func (g *Gateway) Create(ctx context.Context, username, roomName, key string) Outcome {
	if username == "" || strings.TrimSpace(roomName) == "" || key == "" {
		return Outcome{Kind: OutcomeMissingFields}
	}

	room := core.NormalizeRoom(roomName)

	if _, err := g.dir.GetRoomByName(ctx, room); err == nil {
		return Outcome{Kind: OutcomeRoomExists}
	} else if !errors.Is(err, store.ErrRoomNotFound) {
		g.log.Error().Err(err).Str("room", room).Msg("room lookup failed")
		return Outcome{Kind: OutcomeEntryDenied}
	}

	hash, err := auth.HashKey(key, g.keyCost)
	if err != nil {
		g.log.Error().Err(err).Msg("failed to hash room key")
		return Outcome{Kind: OutcomeEntryDenied}
	}

	rec, err := g.dir.CreateRoom(ctx, room, hash)
	if err != nil {
		if errors.Is(err, store.ErrRoomExists) {
			// Lost the create race; same answer as the pre-check.
			return Outcome{Kind: OutcomeRoomExists}
		}
		g.log.Error().Err(err).Str("room", room).Msg("failed to create room")
		return Outcome{Kind: OutcomeEntryDenied}
	}

	g.log.Info().Str("room", rec.Name).Int64("room_id", rec.ID).Msg("room created")
	return g.granted(username, room, rec.ID)
}

// ListRooms returns the names of all rooms.
func (g *Gateway) ListRooms(ctx context.Context) ([]string, error) {
	return g.dir.ListRoomNames(ctx)
}

func (g *Gateway) granted(username, room string, roomID int64) Outcome {
	entry := &Entry{
		Room:     room,
		Username: username,
		RoomID:   roomID,
	}

	if g.tickets != nil {
		ticket, err := g.tickets.Mint(username, room, roomID)
		if err != nil {
			g.log.Error().Err(err).Str("room", room).Msg("failed to mint entry ticket")
		} else {
			entry.Ticket = ticket
		}
	}

	return Outcome{Kind: OutcomeEntryGranted, Entry: entry}
}
