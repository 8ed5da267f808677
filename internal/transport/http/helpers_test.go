package http

import (
	"context"
	stdhttp "net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"chatbox-server/internal/announce"
	"chatbox-server/internal/auth"
	"chatbox-server/internal/config"
	"chatbox-server/internal/core"
	"chatbox-server/internal/gateway"
	"chatbox-server/internal/store"
)

// memDirectory is an in-memory RoomDirectory for handler tests.
type memDirectory struct {
	mu     sync.Mutex
	rooms  map[string]*store.Room
	nextID int64
}

func newMemDirectory() *memDirectory {
	return &memDirectory{rooms: make(map[string]*store.Room)}
}

func (d *memDirectory) CreateRoom(_ context.Context, name, keyHash string) (*store.Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.rooms[name]; ok {
		return nil, store.ErrRoomExists
	}

	d.nextID++
	room := &store.Room{ID: d.nextID, Name: name, KeyHash: keyHash, CreatedAt: time.Now()}
	d.rooms[name] = room
	return room, nil
}

func (d *memDirectory) GetRoomByName(_ context.Context, name string) (*store.Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[name]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return room, nil
}

func (d *memDirectory) ListRoomNames(_ context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, 0, len(d.rooms))
	for id := int64(1); id <= d.nextID; id++ {
		for _, room := range d.rooms {
			if room.ID == id {
				names = append(names, room.Name)
			}
		}
	}
	return names, nil
}

func (d *memDirectory) Close() error { return nil }

type testServerOptions struct {
	cipher  *announce.Cipher
	tickets *auth.Tickets
}

// newTestHandler wires the full route tree against an in-memory directory.
func newTestHandler(t *testing.T, opts testServerOptions) (stdhttp.Handler, *memDirectory) {
	t.Helper()

	logger := zerolog.Nop()
	dir := newMemDirectory()

	registry := core.NewSessionRegistry()
	broadcaster := core.NewBroadcaster(registry, &logger)
	gw := gateway.New(dir, opts.tickets, bcrypt.MinCost, &logger)

	cfg := config.Default()
	cfg.PublicDir = ""

	srv := NewServer(registry, broadcaster, gw, opts.cipher, opts.tickets, &cfg, &logger)
	return srv.Handler, dir
}

func testCipher(t *testing.T) *announce.Cipher {
	t.Helper()

	cipher, err := announce.New("test-announce-secret")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	return cipher
}
