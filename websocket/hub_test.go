package websocket

import (
	"testing"
	"time"
)

func TestBroadcastNeverBlocks(t *testing.T) {
	t.Parallel()

	h := NewHub()
	// No Run loop draining the queue: the buffer fills and further
	// events are dropped instead of blocking the submitter.
	for i := 0; i < 100; i++ {
		h.Broadcast(Event{Type: EventTypeCommitmentCreated})
	}
	if got := h.ClientCount(); got != 0 {
		t.Fatalf("expected no clients, got %d", got)
	}
}

func TestRegisterTracksClients(t *testing.T) {
	t.Parallel()

	h := NewHub()
	go h.Run()

	h.register <- &Client{EmployeeCode: "E1"}

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 registered client, got %d", h.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
