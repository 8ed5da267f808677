package core

// Error codes carried over the wire in "error" events.
const (
	ErrCodeBadTicket  = "bad_ticket"
	ErrCodeBadRequest = "bad_request"
)
