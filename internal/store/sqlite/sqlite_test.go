package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"chatbox-server/internal/store"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()

	dir, err := New(":memory:")
	if err != nil {
		t.Fatalf("open in-memory directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })
	return dir
}

func TestCreateAndGetRoom(t *testing.T) {
	dir := newTestDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateRoom(ctx, "lobby", "hash-value")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected a non-zero room id")
	}

	got, err := dir.GetRoomByName(ctx, "lobby")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || got.Name != "lobby" || got.KeyHash != "hash-value" {
		t.Fatalf("unexpected room: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestGetMissingRoom(t *testing.T) {
	dir := newTestDirectory(t)

	_, err := dir.GetRoomByName(context.Background(), "ghost")
	if !errors.Is(err, store.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestDuplicateRoomRejected(t *testing.T) {
	dir := newTestDirectory(t)
	ctx := context.Background()

	if _, err := dir.CreateRoom(ctx, "lobby", "hash-one"); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := dir.CreateRoom(ctx, "lobby", "hash-two")
	if !errors.Is(err, store.ErrRoomExists) {
		t.Fatalf("expected ErrRoomExists, got %v", err)
	}

	// The original row is untouched.
	got, err := dir.GetRoomByName(ctx, "lobby")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.KeyHash != "hash-one" {
		t.Fatalf("key hash changed: %q", got.KeyHash)
	}
}

func TestListRoomNames(t *testing.T) {
	dir := newTestDirectory(t)
	ctx := context.Background()

	names, err := dir.ListRoomNames(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}

	for _, name := range []string{"cybersec", "algorithms", "lobby"} {
		if _, err := dir.CreateRoom(ctx, name, "hash"); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	names, err = dir.ListRoomNames(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"cybersec", "algorithms", "lobby"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected creation order %v, got %v", want, names)
	}
}
