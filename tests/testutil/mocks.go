package testutil

import (
	"context"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/dimitrije/listing-browser/internal/services"
	"github.com/dimitrije/listing-browser/internal/sse"
	"github.com/stretchr/testify/mock"
)

// MockListingStore mocks the ListingStore
type MockListingStore struct {
	mock.Mock
}

func (m *MockListingStore) Snapshot() *services.Snapshot {
	args := m.Called()
	snap, _ := args.Get(0).(*services.Snapshot)
	return snap
}

func (m *MockListingStore) GetByID(id string) (models.Listing, bool) {
	args := m.Called(id)
	listing, _ := args.Get(0).(models.Listing)
	return listing, args.Bool(1)
}

func (m *MockListingStore) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockListingStore) Create(ctx context.Context, input models.ListingInput) (*models.Listing, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	listing, _ := args.Get(0).(*models.Listing)
	return listing, args.Error(1)
}

func (m *MockListingStore) Subscribe(fn services.Listener) func() {
	args := m.Called(fn)
	if unsubscribe, ok := args.Get(0).(func()); ok {
		return unsubscribe
	}
	return func() {}
}

// MockListingSource mocks a ListingSource
type MockListingSource struct {
	mock.Mock
}

func (m *MockListingSource) Fetch(ctx context.Context) ([]models.RawListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	raws, _ := args.Get(0).([]models.RawListing)
	return raws, args.Error(1)
}

func (m *MockListingSource) Submit(ctx context.Context, input models.ListingInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

// MockSSEHub mocks the SSE Hub
type MockSSEHub struct {
	mock.Mock
}

func (m *MockSSEHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockSSEHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockSSEHub) BroadcastSnapshot(event sse.SnapshotEvent) bool {
	args := m.Called(event)
	return args.Bool(0)
}
