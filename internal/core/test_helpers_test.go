package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type sentEvent struct {
	event   string
	payload any
}

// fakeSender records delivered events; with fail set it rejects every send.
type fakeSender struct {
	mu     sync.Mutex
	fail   bool
	events []sentEvent
}

func (f *fakeSender) Send(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("send failed")
	}
	f.events = append(f.events, sentEvent{event: event, payload: payload})
	return nil
}

func (f *fakeSender) all() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]sentEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeSender) byEvent(event string) []sentEvent {
	var out []sentEvent
	for _, e := range f.all() {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	f.events = nil
	f.mu.Unlock()
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// prefixSealer marks announcement text so tests can tell sealed from plain.
type prefixSealer struct{}

func (prefixSealer) Seal(plaintext string) (string, error) {
	return "sealed:" + plaintext, nil
}

// rejectTickets fails every verification.
type rejectTickets struct{}

func (rejectTickets) Verify(_, _, _ string) error {
	return errors.New("bad ticket")
}

func messageText(t *testing.T, e sentEvent) MessagePayload {
	t.Helper()

	payload, ok := e.payload.(MessagePayload)
	if !ok {
		t.Fatalf("expected MessagePayload, got %T", e.payload)
	}
	return payload
}
