package http

import (
	"net/url"
	"strconv"

	"chatbox-server/internal/gateway"
)

// Redirect targets mirror the legacy static pages. The denied page covers
// wrong key, missing room and storage failure alike.
const (
	entryDeniedPage   = "/wrong-password.html"
	missingFieldsPage = "/missing-fields.html"
	roomExistsPage    = "/room-exists.html"
)

// redirectFor maps a gateway outcome onto the legacy redirect targets.
func redirectFor(outcome gateway.Outcome) string {
	switch outcome.Kind {
	case gateway.OutcomeEntryGranted:
		return entryURL(outcome.Entry)
	case gateway.OutcomeMissingFields:
		return missingFieldsPage
	case gateway.OutcomeRoomExists:
		return roomExistsPage
	default:
		return entryDeniedPage
	}
}

func entryURL(entry *gateway.Entry) string {
	q := url.Values{}
	q.Set("room", entry.Room)
	q.Set("username", entry.Username)
	q.Set("sk", strconv.FormatInt(entry.RoomID, 10))
	if entry.Ticket != "" {
		q.Set("ticket", entry.Ticket)
	}
	return "/chat.html?" + q.Encode()
}
