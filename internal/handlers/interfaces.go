package handlers

import (
	"context"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/dimitrije/listing-browser/internal/services"
	"github.com/dimitrije/listing-browser/internal/sse"
)

// ListingStoreInterface defines the methods used by handlers from ListingStore
type ListingStoreInterface interface {
	Snapshot() *services.Snapshot
	GetByID(id string) (models.Listing, bool)
	Refresh(ctx context.Context) error
	Create(ctx context.Context, input models.ListingInput) (*models.Listing, error)
	Subscribe(fn services.Listener) func()
}

// SSEHubInterface defines the methods used by handlers from the SSE Hub
type SSEHubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	BroadcastSnapshot(event sse.SnapshotEvent) bool
}
