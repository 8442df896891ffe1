package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/dimitrije/listing-browser/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource hands every Fetch to the test, which decides when and how
// it completes.
type scriptedSource struct {
	calls     chan chan fetchResult
	submitID  string
	submitErr error
	submitted []models.ListingInput
	mu        sync.Mutex
}

type fetchResult struct {
	raws []models.RawListing
	err  error
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{calls: make(chan chan fetchResult, 8)}
}

func (s *scriptedSource) Fetch(ctx context.Context) ([]models.RawListing, error) {
	reply := make(chan fetchResult, 1)
	s.calls <- reply
	select {
	case r := <-reply:
		return r.raws, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *scriptedSource) Submit(_ context.Context, input models.ListingInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, input)
	return s.submitID, s.submitErr
}

func (s *scriptedSource) nextCall(t *testing.T) chan fetchResult {
	t.Helper()
	select {
	case reply := <-s.calls:
		return reply
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch")
		return nil
	}
}

type recordingObserver struct {
	mu        sync.Mutex
	refreshes []string
	discarded int
	creates   []string
	published []int
}

func (o *recordingObserver) RefreshCompleted(result string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.refreshes = append(o.refreshes, result)
}

func (o *recordingObserver) RefreshDiscarded() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.discarded++
}

func (o *recordingObserver) CreateCompleted(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.creates = append(o.creates, result)
}

func (o *recordingObserver) ListingsPublished(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.published = append(o.published, count)
}

func titles(snap *Snapshot) []string {
	out := []string{}
	for _, l := range snap.Listings() {
		out = append(out, l.Title)
	}
	return out
}

func refreshAsync(store *ListingStore) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- store.Refresh(context.Background())
	}()
	return done
}

func waitErr(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refresh")
		return nil
	}
}

func TestNewListingStore_StartsLoading(t *testing.T) {
	store := NewListingStore(newScriptedSource())

	snap := store.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status())
	assert.Equal(t, 0, snap.Len())
	assert.NotNil(t, snap.Listings())
	assert.Equal(t, uint64(1), snap.Version())
}

func TestNewListingStore_WithInitialListings(t *testing.T) {
	store := NewListingStore(newScriptedSource(), WithInitialListings(source.SeedListings()))

	snap := store.Snapshot()
	assert.Equal(t, StatusReady, snap.Status())
	assert.Equal(t, 4, snap.Len())
	assert.Empty(t, snap.ErrorMessage())
}

func TestListingStore_Refresh_Success(t *testing.T) {
	src := newScriptedSource()
	obs := &recordingObserver{}
	store := NewListingStore(src, WithObserver(obs))

	done := refreshAsync(store)
	src.nextCall(t) <- fetchResult{raws: []models.RawListing{
		{"id": 7, "title": "X", "price": "500"},
	}}
	require.NoError(t, waitErr(t, done))

	snap := store.Snapshot()
	assert.Equal(t, StatusReady, snap.Status())
	listing, ok := snap.Get("7")
	require.True(t, ok)
	assert.Equal(t, 500.0, listing.Price)
	assert.Equal(t, 2, *listing.Bathrooms)
	assert.Equal(t, 780.0, *listing.Area)
	assert.Equal(t, "No description available", listing.Description)
	assert.Equal(t, []string{"ok"}, obs.refreshes)
}

func TestListingStore_Refresh_FailureClearsSeed(t *testing.T) {
	src := newScriptedSource()
	store := NewListingStore(src, WithInitialListings(source.SeedListings()))
	require.Equal(t, 4, store.Snapshot().Len())

	done := refreshAsync(store)
	src.nextCall(t) <- fetchResult{err: errors.New("network unreachable")}
	err := waitErr(t, done)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)

	snap := store.Snapshot()
	assert.Equal(t, StatusError, snap.Status())
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, "network unreachable", snap.ErrorMessage())
	_, ok := store.GetByID("1")
	assert.False(t, ok)
}

func TestListingStore_Refresh_LaterIssuedWins(t *testing.T) {
	src := newScriptedSource()
	obs := &recordingObserver{}
	store := NewListingStore(src, WithObserver(obs))

	first := refreshAsync(store)
	firstReply := src.nextCall(t)
	second := refreshAsync(store)
	secondReply := src.nextCall(t)

	secondReply <- fetchResult{raws: []models.RawListing{{"id": "b", "title": "Second"}}}
	require.NoError(t, waitErr(t, second))
	assert.Equal(t, StatusReady, store.Snapshot().Status())

	firstReply <- fetchResult{raws: []models.RawListing{{"id": "a", "title": "First"}}}
	require.NoError(t, waitErr(t, first))

	snap := store.Snapshot()
	assert.Equal(t, StatusReady, snap.Status())
	assert.Equal(t, []string{"Second"}, titles(snap))
	assert.Equal(t, 1, obs.discarded)
}

func TestListingStore_Refresh_EarlierResultStaysLoading(t *testing.T) {
	src := newScriptedSource()
	store := NewListingStore(src)

	first := refreshAsync(store)
	firstReply := src.nextCall(t)
	second := refreshAsync(store)
	secondReply := src.nextCall(t)

	firstReply <- fetchResult{raws: []models.RawListing{{"id": "a", "title": "First"}}}
	require.NoError(t, waitErr(t, first))

	snap := store.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status())
	assert.Equal(t, []string{"First"}, titles(snap))

	secondReply <- fetchResult{raws: []models.RawListing{{"id": "b", "title": "Second"}}}
	require.NoError(t, waitErr(t, second))

	snap = store.Snapshot()
	assert.Equal(t, StatusReady, snap.Status())
	assert.Equal(t, []string{"Second"}, titles(snap))
}

func TestListingStore_Refresh_StaleFailureIgnored(t *testing.T) {
	src := newScriptedSource()
	store := NewListingStore(src)

	first := refreshAsync(store)
	firstReply := src.nextCall(t)
	second := refreshAsync(store)
	secondReply := src.nextCall(t)

	secondReply <- fetchResult{raws: []models.RawListing{{"id": "b", "title": "Second"}}}
	require.NoError(t, waitErr(t, second))

	firstReply <- fetchResult{err: errors.New("timeout")}
	assert.NoError(t, waitErr(t, first))

	snap := store.Snapshot()
	assert.Equal(t, StatusReady, snap.Status())
	assert.Equal(t, 1, snap.Len())
}

func TestListingStore_Create_RoundTrip(t *testing.T) {
	seed := source.SeedListings()
	store := NewListingStore(source.NewMemorySource(seed), WithInitialListings(seed))

	bedrooms, bathrooms, area := 4, 3, 2400.0
	input := models.ListingInput{
		Title:       "Hillside Villa",
		Price:       1200000,
		Location:    "Los Angeles, California",
		Description: "Spacious villa with a pool and canyon views.",
		Image:       "https://example.com/villa.jpg",
		Bedrooms:    &bedrooms,
		Bathrooms:   &bathrooms,
		Area:        &area,
		Type:        "House",
	}

	created, err := store.Create(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, created)

	for _, l := range seed {
		assert.NotEqual(t, l.ID, created.ID)
	}
	assert.NotEmpty(t, created.ID)

	got, ok := store.GetByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, input, got.ToInput())

	snap := store.Snapshot()
	assert.Equal(t, StatusReady, snap.Status())
	assert.Equal(t, 5, snap.Len())
	assert.Equal(t, created.ID, snap.Listings()[0].ID)
}

func TestListingStore_Create_SubmitFailureLeavesCollection(t *testing.T) {
	src := newScriptedSource()
	src.submitErr = errors.New("HTTP error! status: 500")
	obs := &recordingObserver{}
	store := NewListingStore(src, WithInitialListings(source.SeedListings()), WithObserver(obs))
	before := store.Snapshot()

	created, err := store.Create(context.Background(), models.ListingInput{Title: "Nope", Price: 1})

	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrCreateFailed)

	after := store.Snapshot()
	assert.Same(t, before, after)
	assert.Equal(t, before.Listings(), after.Listings())
	assert.Equal(t, []string{"error"}, obs.creates)
}

func TestListingStore_Create_RefreshFailure(t *testing.T) {
	src := newScriptedSource()
	src.submitID = "new"
	store := NewListingStore(src)

	done := make(chan error, 1)
	go func() {
		_, err := store.Create(context.Background(), models.ListingInput{Title: "New", Price: 1})
		done <- err
	}()
	src.nextCall(t) <- fetchResult{err: errors.New("connection reset")}

	err := waitErr(t, done)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.NotErrorIs(t, err, ErrCreateFailed)
	assert.Equal(t, StatusError, store.Snapshot().Status())
}

func TestListingStore_Create_UnknownID(t *testing.T) {
	src := newScriptedSource()
	store := NewListingStore(src)

	done := make(chan *models.Listing, 1)
	go func() {
		created, err := store.Create(context.Background(), models.ListingInput{Title: "New", Price: 1})
		assert.NoError(t, err)
		done <- created
	}()
	src.nextCall(t) <- fetchResult{raws: []models.RawListing{{"id": "x", "title": "New"}}}

	select {
	case created := <-done:
		assert.Nil(t, created)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for create")
	}
	assert.Equal(t, 1, store.Snapshot().Len())
}

func TestListingStore_Create_RejectsInvalidInput(t *testing.T) {
	negative := -1
	zero := 0.0

	tests := []struct {
		name  string
		input models.ListingInput
	}{
		{"negative price", models.ListingInput{Price: -1}},
		{"nan price", models.ListingInput{Price: math.NaN()}},
		{"price beyond column", models.ListingInput{Price: 1e20}},
		{"negative bedrooms", models.ListingInput{Price: 1, Bedrooms: &negative}},
		{"negative bathrooms", models.ListingInput{Price: 1, Bathrooms: &negative}},
		{"zero area", models.ListingInput{Price: 1, Area: &zero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newScriptedSource()
			store := NewListingStore(src)

			created, err := store.Create(context.Background(), tt.input)

			assert.Nil(t, created)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Empty(t, src.submitted)
		})
	}
}

func TestListingStore_GetByID_Absent(t *testing.T) {
	store := NewListingStore(newScriptedSource(), WithInitialListings(source.SeedListings()))

	listing, ok := store.GetByID("does-not-exist")

	assert.False(t, ok)
	assert.Equal(t, models.Listing{}, listing)
}

func TestListingStore_Subscribe(t *testing.T) {
	src := newScriptedSource()
	store := NewListingStore(src)

	var mu sync.Mutex
	var statuses []Status
	unsubscribe := store.Subscribe(func(snap *Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, snap.Status())
	})

	done := refreshAsync(store)
	src.nextCall(t) <- fetchResult{raws: []models.RawListing{}}
	require.NoError(t, waitErr(t, done))

	unsubscribe()

	done = refreshAsync(store)
	src.nextCall(t) <- fetchResult{raws: []models.RawListing{}}
	require.NoError(t, waitErr(t, done))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusLoading, StatusReady}, statuses)
}

func TestListingStore_Subscribe_FromListener(t *testing.T) {
	src := newScriptedSource()
	store := NewListingStore(src)

	var mu sync.Mutex
	var first, second []Status
	var unsubscribe func()
	unsubscribe = store.Subscribe(func(snap *Snapshot) {
		mu.Lock()
		first = append(first, snap.Status())
		mu.Unlock()

		unsubscribe()
		store.Subscribe(func(snap *Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			second = append(second, snap.Status())
		})
	})

	done := refreshAsync(store)
	src.nextCall(t) <- fetchResult{raws: []models.RawListing{}}
	require.NoError(t, waitErr(t, done))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusLoading}, first)
	assert.Equal(t, []Status{StatusReady}, second)
}

func TestSnapshot_ListingsIsACopy(t *testing.T) {
	store := NewListingStore(newScriptedSource(), WithInitialListings(source.SeedListings()))

	listings := store.Snapshot().Listings()
	listings[0].Title = "changed"

	got, ok := store.GetByID(listings[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "changed", got.Title)
}
