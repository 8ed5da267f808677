package proto

import "encoding/json"

// Inbound is the envelope for events coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event names, kept byte-for-byte compatible with the legacy client.
const (
	InboundTypeJoinRoom    = "joinRoom"
	InboundTypeChatMessage = "chatMessage"

	OutboundTypeMessage   = "message"
	OutboundTypeRoomUsers = "roomUsers"
	OutboundTypeError     = "error"
)

// JoinRoomData requests to join a room. The ticket is optional; it is
// issued by the room gateway on a successful validate or create.
type JoinRoomData struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	Ticket   string `json:"ticket,omitempty"`
}

// ChatMessageData is a chat line from the client.
type ChatMessageData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for events sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
