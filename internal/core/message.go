package core

import "time"

// ChatMessage is a transient chat payload. It exists only for the duration
// of a broadcast and is never persisted.
type ChatMessage struct {
	Username string
	Text     string
	SentAt   time.Time
}

// NewChatMessage stamps a chat message with the current time.
func NewChatMessage(username, text string) ChatMessage {
	return ChatMessage{
		Username: username,
		Text:     text,
		SentAt:   time.Now(),
	}
}

// MessagePayload is the body of a "message" event.
type MessagePayload struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	TS       int64  `json:"ts"`
}

// RoomUsersPayload is the body of a "roomUsers" roster event.
type RoomUsersPayload struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// ErrorPayload describes a per-connection protocol error.
type ErrorPayload struct {
	Code string
	Msg  string
}

func payloadFor(msg ChatMessage) MessagePayload {
	return MessagePayload{
		Username: msg.Username,
		Text:     msg.Text,
		TS:       msg.SentAt.Unix(),
	}
}
