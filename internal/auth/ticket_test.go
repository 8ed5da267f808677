package auth

import (
	"testing"
	"time"
)

func testConfig(ttl time.Duration) *TicketConfig {
	return &TicketConfig{
		Secret: []byte("test-ticket-secret"),
		Issuer: "chatbox",
		TTL:    ttl,
	}
}

func TestTicketRoundTrip(t *testing.T) {
	tickets := NewTickets(testConfig(time.Hour))

	ticket, err := tickets.Mint("alice", "lobby", 7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := tickets.Verify(ticket, "alice", "lobby"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// Room comparison is normalization-insensitive.
	if err := tickets.Verify(ticket, "alice", " LOBBY "); err != nil {
		t.Fatalf("verify with unnormalized room: %v", err)
	}
}

func TestTicketRejectsMismatch(t *testing.T) {
	tickets := NewTickets(testConfig(time.Hour))

	ticket, err := tickets.Mint("alice", "lobby", 7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := tickets.Verify(ticket, "mallory", "lobby"); err == nil {
		t.Fatal("expected rejection for another username")
	}
	if err := tickets.Verify(ticket, "alice", "den"); err == nil {
		t.Fatal("expected rejection for another room")
	}
}

func TestTicketRejectsWrongSecret(t *testing.T) {
	ticket, err := NewTickets(testConfig(time.Hour)).Mint("alice", "lobby", 7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := NewTickets(&TicketConfig{Secret: []byte("other-secret"), Issuer: "chatbox", TTL: time.Hour})
	if err := other.Verify(ticket, "alice", "lobby"); err == nil {
		t.Fatal("expected rejection for a ticket signed with another secret")
	}
}

func TestTicketExpires(t *testing.T) {
	tickets := NewTickets(testConfig(-time.Minute))

	ticket, err := tickets.Mint("alice", "lobby", 7)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := tickets.Verify(ticket, "alice", "lobby"); err == nil {
		t.Fatal("expected rejection for an expired ticket")
	}
}
