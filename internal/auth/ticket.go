package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chatbox-server/internal/core"
)

// TicketClaims are embedded in a gateway-issued entry ticket.
type TicketClaims struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	RoomID   int64  `json:"room_id"`
	jwt.RegisteredClaims
}

// TicketConfig holds entry-ticket signing configuration.
type TicketConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Tickets mints and verifies the entry tickets the room gateway hands out
// on a successful validate or create.
type Tickets struct {
	cfg *TicketConfig
}

// NewTickets creates a ticket service with the given configuration.
func NewTickets(cfg *TicketConfig) *Tickets {
	return &Tickets{cfg: cfg}
}

// Mint creates a signed entry ticket for a username/room pair.
func (t *Tickets) Mint(username, room string, roomID int64) (string, error) {
	now := time.Now()
	claims := TicketClaims{
		Username: username,
		Room:     room,
		RoomID:   roomID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.Secret)
}

// Verify parses a ticket and checks it was minted for the given username
// and room. Room names are compared after normalization.
func (t *Tickets) Verify(ticket, username, room string) error {
	token, err := jwt.ParseWithClaims(ticket, &TicketClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.cfg.Secret, nil
	})
	if err != nil {
		return fmt.Errorf("parse ticket: %w", err)
	}

	claims, ok := token.Claims.(*TicketClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid ticket claims")
	}

	if t.cfg.Issuer != "" && claims.Issuer != t.cfg.Issuer {
		return fmt.Errorf("invalid issuer")
	}
	if claims.Username != username {
		return fmt.Errorf("ticket issued for another username")
	}
	if claims.Room != core.NormalizeRoom(room) {
		return fmt.Errorf("ticket issued for another room")
	}

	return nil
}
