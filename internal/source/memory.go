package source

import (
	"context"
	"maps"
	"sync"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/google/uuid"
)

// MemorySource keeps listings in process memory. New listings get a random
// id and are placed first.
type MemorySource struct {
	mu       sync.RWMutex
	listings []models.RawListing
}

func NewMemorySource(seed []models.Listing) *MemorySource {
	raws := make([]models.RawListing, 0, len(seed))
	for _, l := range seed {
		raws = append(raws, l.ToRaw())
	}
	return &MemorySource{listings: raws}
}

func (s *MemorySource) Fetch(ctx context.Context) ([]models.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RawListing, len(s.listings))
	for i, raw := range s.listings {
		out[i] = maps.Clone(raw)
	}
	return out, nil
}

func (s *MemorySource) Submit(ctx context.Context, input models.ListingInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = append([]models.RawListing{input.ToRaw(id)}, s.listings...)
	return id, nil
}
