package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"chatbox-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	key_hash   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Directory implements store.RoomDirectory for SQLite.
type Directory struct {
	db *sql.DB
}

// New opens (and if necessary initializes) the room database at dbPath.
func New(dbPath string) (*Directory, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Directory{db: db}, nil
}

// Close closes the database connection.
func (d *Directory) Close() error {
	return d.db.Close()
}

// CreateRoom persists a new room. The UNIQUE constraint on name is the
// backstop for the gateway's check-then-insert race; a duplicate insert
// surfaces as store.ErrRoomExists.
func (d *Directory) CreateRoom(ctx context.Context, name, keyHash string) (*store.Room, error) {
	query := `
		INSERT INTO rooms (name, key_hash)
		VALUES (?, ?)
	`
	result, err := d.db.ExecContext(ctx, query, name, keyHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, store.ErrRoomExists
		}
		return nil, fmt.Errorf("insert room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return d.getRoomByID(ctx, id)
}

// GetRoomByName retrieves a room by its normalized name.
func (d *Directory) GetRoomByName(ctx context.Context, name string) (*store.Room, error) {
	query := `
		SELECT id, name, key_hash, created_at
		FROM rooms
		WHERE name = ?
	`
	var room store.Room
	err := d.db.QueryRowContext(ctx, query, name).Scan(
		&room.ID,
		&room.Name,
		&room.KeyHash,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRoomNotFound
		}
		return nil, fmt.Errorf("query room: %w", err)
	}

	return &room, nil
}

// ListRoomNames lists the names of all rooms in creation order.
func (d *Directory) ListRoomNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM rooms
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan room name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (d *Directory) getRoomByID(ctx context.Context, id int64) (*store.Room, error) {
	query := `
		SELECT id, name, key_hash, created_at
		FROM rooms
		WHERE id = ?
	`
	var room store.Room
	err := d.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.KeyHash,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRoomNotFound
		}
		return nil, fmt.Errorf("query room: %w", err)
	}

	return &room, nil
}
