package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dimitrije/listing-browser/internal/models"
	"go.uber.org/zap"
)

var (
	ErrFetchFailed      = errors.New("failed to fetch listings")
	ErrCreateFailed     = errors.New("failed to create listing")
	ErrValidationFailed = errors.New("listing validation failed")
	ErrListingNotFound  = errors.New("listing not found")
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// ListingSource is where the store loads listings from and submits new
// ones to. Submit returns the id the source assigned, or "" when the source
// does not report one.
type ListingSource interface {
	Fetch(ctx context.Context) ([]models.RawListing, error)
	Submit(ctx context.Context, input models.ListingInput) (string, error)
}

// StoreObserver receives store activity, typically for metrics.
type StoreObserver interface {
	RefreshCompleted(result string, duration time.Duration)
	RefreshDiscarded()
	CreateCompleted(result string)
	ListingsPublished(count int)
}

// Listener is called with every snapshot the store publishes, in publish
// order. Listeners may Subscribe or unsubscribe but must not call Refresh
// or Create, which wait for the publish in progress.
type Listener func(*Snapshot)

// Snapshot is an immutable view of the store at one point in time.
type Snapshot struct {
	listings     []models.Listing
	status       Status
	errorMessage string
	version      uint64
	updatedAt    time.Time
}

// Listings returns a copy of the collection, safe for the caller to keep.
func (s *Snapshot) Listings() []models.Listing {
	return slices.Clone(s.listings)
}

func (s *Snapshot) Len() int {
	return len(s.listings)
}

func (s *Snapshot) Status() Status {
	return s.status
}

func (s *Snapshot) ErrorMessage() string {
	return s.errorMessage
}

func (s *Snapshot) Version() uint64 {
	return s.version
}

func (s *Snapshot) UpdatedAt() time.Time {
	return s.updatedAt
}

// Get looks up a listing by id with a linear scan.
func (s *Snapshot) Get(id string) (models.Listing, bool) {
	for _, l := range s.listings {
		if l.ID == id {
			return l, true
		}
	}
	return models.Listing{}, false
}

type StoreOption func(*ListingStore)

func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *ListingStore) {
		s.logger = logger
	}
}

func WithObserver(observer StoreObserver) StoreOption {
	return func(s *ListingStore) {
		s.observer = observer
	}
}

func WithPlaceholderImage(url string) StoreOption {
	return func(s *ListingStore) {
		s.normalizer = NewNormalizer(url)
	}
}

// WithInitialListings starts the store ready with the given listings
// instead of empty and loading.
func WithInitialListings(listings []models.Listing) StoreOption {
	return func(s *ListingStore) {
		s.initial = slices.Clone(listings)
	}
}

// ListingStore owns the listing collection. Writers publish immutable
// snapshots under mu; readers load the latest snapshot without locking.
type ListingStore struct {
	source     ListingSource
	normalizer *Normalizer
	logger     *zap.Logger
	observer   StoreObserver
	initial    []models.Listing

	current atomic.Pointer[Snapshot]

	mu      sync.Mutex
	issued  uint64
	applied uint64
	version uint64

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewListingStore(source ListingSource, opts ...StoreOption) *ListingStore {
	s := &ListingStore{
		source:     source,
		normalizer: NewNormalizer(""),
		logger:     zap.NewNop(),
		observer:   nopObserver{},
		listeners:  make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.initial != nil {
		s.publish(s.initial, StatusReady, "")
	} else {
		s.publish(nil, StatusLoading, "")
	}
	s.initial = nil
	return s
}

func (s *ListingStore) Snapshot() *Snapshot {
	return s.current.Load()
}

func (s *ListingStore) GetByID(id string) (models.Listing, bool) {
	return s.Snapshot().Get(id)
}

// Subscribe registers fn for every future snapshot. The returned function
// removes it again.
func (s *ListingStore) Subscribe(fn Listener) func() {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// Refresh replaces the whole collection with what the source returns now.
// On failure the collection is emptied and the snapshot carries the error.
// A result is dropped if a refresh issued later has already been applied.
func (s *ListingStore) Refresh(ctx context.Context) error {
	seq := s.begin()
	start := time.Now()

	raws, err := s.source.Fetch(ctx)
	var listings []models.Listing
	if err == nil {
		listings = s.normalizer.NormalizeAll(raws)
	}

	if !s.finish(seq, listings, err) {
		s.observer.RefreshDiscarded()
		s.logger.Debug("discarded stale refresh result", zap.Uint64("seq", seq))
		return nil
	}

	if err != nil {
		s.observer.RefreshCompleted("error", time.Since(start))
		s.logger.Error("failed to refresh listings", zap.Uint64("seq", seq), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	s.observer.RefreshCompleted("ok", time.Since(start))
	s.logger.Info("refreshed listings", zap.Uint64("seq", seq), zap.Int("count", len(listings)))
	return nil
}

// Create submits input to the source and refreshes so the new listing shows
// up with source-assigned fields. The collection is untouched when the
// submission fails. The returned listing is nil when the source did not
// report the new id.
func (s *ListingStore) Create(ctx context.Context, input models.ListingInput) (*models.Listing, error) {
	if err := checkInput(input); err != nil {
		s.observer.CreateCompleted("invalid")
		return nil, err
	}

	id, err := s.source.Submit(ctx, input)
	if err != nil {
		s.observer.CreateCompleted("error")
		s.logger.Error("failed to submit listing", zap.String("title", input.Title), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	s.observer.CreateCompleted("ok")

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	if id == "" {
		s.logger.Warn("source did not report the new listing id", zap.String("title", input.Title))
		return nil, nil
	}

	listing, ok := s.GetByID(id)
	if !ok {
		s.logger.Warn("created listing missing after refresh", zap.String("listing_id", id))
		return nil, nil
	}
	return &listing, nil
}

func checkInput(input models.ListingInput) error {
	if math.IsNaN(input.Price) || math.IsInf(input.Price, 0) || input.Price < 0 {
		return fmt.Errorf("%w: price must be a non-negative number", ErrValidationFailed)
	}
	if input.Price > models.MaxPrice {
		return fmt.Errorf("%w: price is too large", ErrValidationFailed)
	}
	if input.Bedrooms != nil && *input.Bedrooms < 0 {
		return fmt.Errorf("%w: bedrooms must not be negative", ErrValidationFailed)
	}
	if input.Bathrooms != nil && *input.Bathrooms < 0 {
		return fmt.Errorf("%w: bathrooms must not be negative", ErrValidationFailed)
	}
	if input.Area != nil && (math.IsNaN(*input.Area) || *input.Area <= 0) {
		return fmt.Errorf("%w: area must be positive", ErrValidationFailed)
	}
	return nil
}

// begin issues a sequence number and marks the store as loading.
func (s *ListingStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	s.publishLocked(s.current.Load().listings, StatusLoading, "")
	return s.issued
}

// finish applies the outcome of refresh seq unless a later refresh already
// won. It reports whether the outcome was applied.
func (s *ListingStore) finish(seq uint64, listings []models.Listing, fetchErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		return false
	}
	s.applied = seq

	status, message := StatusReady, ""
	if fetchErr != nil {
		status, message = StatusError, fetchErr.Error()
		listings = nil
	}
	if seq < s.issued {
		status, message = StatusLoading, ""
	}

	s.publishLocked(listings, status, message)
	return true
}

func (s *ListingStore) publish(listings []models.Listing, status Status, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(listings, status, message)
}

func (s *ListingStore) publishLocked(listings []models.Listing, status Status, message string) {
	if listings == nil {
		listings = []models.Listing{}
	}
	s.version++
	snap := &Snapshot{
		listings:     listings,
		status:       status,
		errorMessage: message,
		version:      s.version,
		updatedAt:    time.Now(),
	}
	s.current.Store(snap)
	s.observer.ListingsPublished(len(listings))

	// Delivery stays under mu so listeners see snapshots in version order.
	s.lmu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.lmu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

type nopObserver struct{}

func (nopObserver) RefreshCompleted(string, time.Duration) {}
func (nopObserver) RefreshDiscarded()                      {}
func (nopObserver) CreateCompleted(string)                 {}
func (nopObserver) ListingsPublished(int)                  {}
