package source

import (
	"context"
	"testing"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySource_FetchReturnsSeed(t *testing.T) {
	src := NewMemorySource(SeedListings())

	raws, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, raws, 4)
	assert.Equal(t, "1", raws[0]["id"])
	assert.Equal(t, "Modern Downtown Apartment", raws[0]["title"])
	assert.Equal(t, 0, raws[3]["bedrooms"])
}

func TestMemorySource_FetchReturnsCopies(t *testing.T) {
	src := NewMemorySource(SeedListings())

	raws, err := src.Fetch(context.Background())
	require.NoError(t, err)
	raws[0]["title"] = "changed"

	again, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Modern Downtown Apartment", again[0]["title"])
}

func TestMemorySource_SubmitPrepends(t *testing.T) {
	src := NewMemorySource(SeedListings())

	id, err := src.Submit(context.Background(), models.ListingInput{Title: "New", Price: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	other, err := src.Submit(context.Background(), models.ListingInput{Title: "Newer", Price: 20})
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	raws, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 6)
	assert.Equal(t, other, raws[0]["id"])
	assert.Equal(t, id, raws[1]["id"])
}

func TestMemorySource_CanceledContext(t *testing.T) {
	src := NewMemorySource(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = src.Submit(ctx, models.ListingInput{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeedListings_FreshValues(t *testing.T) {
	a := SeedListings()
	b := SeedListings()

	*a[0].Bedrooms = 99

	assert.Equal(t, 2, *b[0].Bedrooms)
	seen := map[string]bool{}
	for _, l := range b {
		assert.False(t, seen[l.ID])
		seen[l.ID] = true
		assert.NotEmpty(t, l.Image)
	}
}
