package handlers

import (
	"github.com/dimitrije/listing-browser/internal/services"
	"github.com/dimitrije/listing-browser/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SSEHandler struct {
	hub   SSEHubInterface
	store ListingStoreInterface
}

func NewSSEHandler(hub SSEHubInterface, store ListingStoreInterface) *SSEHandler {
	return &SSEHandler{
		hub:   hub,
		store: store,
	}
}

// Connect streams snapshot events until the client goes away. The current
// snapshot is sent first so a client never starts blind.
func (h *SSEHandler) Connect(c *drift.Context) {
	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:   clientID,
		Send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	if err := sseCtx.SendJSON(sse.Event{
		Type: "snapshot",
		Data: SnapshotEvent(h.store.Snapshot()),
	}, "message", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// PublishSnapshots forwards every snapshot the store publishes to the hub.
// The returned function stops forwarding.
func PublishSnapshots(store ListingStoreInterface, hub SSEHubInterface) func() {
	return store.Subscribe(func(snap *services.Snapshot) {
		hub.BroadcastSnapshot(SnapshotEvent(snap))
	})
}

func SnapshotEvent(snap *services.Snapshot) sse.SnapshotEvent {
	return sse.SnapshotEvent{
		Version:   snap.Version(),
		Status:    string(snap.Status()),
		Error:     snap.ErrorMessage(),
		Count:     snap.Len(),
		UpdatedAt: snap.UpdatedAt(),
	}
}
