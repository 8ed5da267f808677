package store

import (
	"context"
	"errors"
	"time"
)

// Room is a persisted chat room: a normalized unique name plus the bcrypt
// hash of its shared key. Rooms are immutable once created.
type Room struct {
	ID        int64
	Name      string
	KeyHash   string
	CreatedAt time.Time
}

var (
	// ErrRoomNotFound is returned when no room matches the given name.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned when a room name is already taken.
	ErrRoomExists = errors.New("room already exists")
)

// RoomDirectory is the persisted catalog of rooms.
type RoomDirectory interface {
	// CreateRoom persists a new room. Returns ErrRoomExists when the name
	// is already taken: the storage layer enforces name uniqueness as a
	// backstop for the gateway's check-then-insert.
	CreateRoom(ctx context.Context, name, keyHash string) (*Room, error)

	// GetRoomByName retrieves a room by its normalized name. Returns
	// ErrRoomNotFound when absent.
	GetRoomByName(ctx context.Context, name string) (*Room, error)

	// ListRoomNames lists the names of all rooms.
	ListRoomNames(ctx context.Context) ([]string, error)

	// Close releases the underlying storage.
	Close() error
}
