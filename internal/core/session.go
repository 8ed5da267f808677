package core

import (
	"sort"
	"strings"
	"sync"
)

// Session binds a live connection to a username and a room.
// Sessions are owned by the registry: created on Join, destroyed on Remove.
type Session struct {
	ConnID   string
	Username string
	Room     string

	seq uint64
}

// NormalizeRoom lowercases and trims a room name. Every lookup, comparison
// and storage of a room name goes through this.
func NormalizeRoom(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SessionRegistry is the process-lifetime table mapping connection IDs to
// sessions. At most one session exists per connection at any time.
// All methods are safe for concurrent use; none perform I/O under the lock.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
	seq      uint64
}

// NewSessionRegistry constructs an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]Session),
	}
}

// Join inserts or overwrites the session for connID and returns it.
// The room name is normalized. Usernames are not validated and duplicates
// within a room are allowed.
func (r *SessionRegistry) Join(connID, username, room string) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	s := Session{
		ConnID:   connID,
		Username: username,
		Room:     NormalizeRoom(room),
		seq:      r.seq,
	}
	r.sessions[connID] = s
	return s
}

// Get returns the session for connID, if any.
func (r *SessionRegistry) Get(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	return s, ok
}

// Remove deletes and returns the prior session for connID. The second
// return value is false when the connection never joined.
func (r *SessionRegistry) Remove(connID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if ok {
		delete(r.sessions, connID)
	}
	return s, ok
}

// MembersOf returns the usernames currently joined to room, in join order.
func (r *SessionRegistry) MembersOf(room string) []string {
	sessions := r.SessionsIn(room)
	users := make([]string, 0, len(sessions))
	for _, s := range sessions {
		users = append(users, s.Username)
	}
	return users
}

// SessionsIn returns a join-ordered snapshot of the sessions in room.
// The broadcaster iterates the snapshot after the lock is released so a
// slow connection never blocks the registry.
func (r *SessionRegistry) SessionsIn(room string) []Session {
	room = NormalizeRoom(room)

	r.mu.RLock()
	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.Room == room {
			sessions = append(sessions, s)
		}
	}
	r.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].seq < sessions[j].seq })
	return sessions
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
