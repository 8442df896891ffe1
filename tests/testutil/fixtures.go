package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/listing-browser/internal/database"
	"github.com/dimitrije/listing-browser/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// ListingInput builds a valid listing input with default values
func ListingInput(opts ...ListingOption) models.ListingInput {
	bedrooms, bathrooms, area := 3, 2, 1500.0
	input := models.ListingInput{
		Title:       "Test Listing",
		Price:       250000,
		Location:    "Springfield, Illinois",
		Description: "A perfectly ordinary house used for testing purposes.",
		Bedrooms:    &bedrooms,
		Bathrooms:   &bathrooms,
		Area:        &area,
		Type:        string(models.PropertyTypeHouse),
	}

	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// CreateListing inserts a listing row and returns its id
func (f *Fixtures) CreateListing(t *testing.T, opts ...ListingOption) string {
	t.Helper()
	f.counter++

	input := ListingInput(append([]ListingOption{
		WithTitle(fmt.Sprintf("Test Listing %d", f.counter)),
	}, opts...)...)

	id, err := database.NewListingSource(f.db).Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("failed to create listing: %v", err)
	}
	return id
}

// ListingOption configures a test listing
type ListingOption func(*models.ListingInput)

func WithTitle(title string) ListingOption {
	return func(in *models.ListingInput) {
		in.Title = title
	}
}

func WithPrice(price float64) ListingOption {
	return func(in *models.ListingInput) {
		in.Price = price
	}
}

func WithLocation(location string) ListingOption {
	return func(in *models.ListingInput) {
		in.Location = location
	}
}

func WithImage(url string) ListingOption {
	return func(in *models.ListingInput) {
		in.Image = url
	}
}

func WithType(t models.PropertyType) ListingOption {
	return func(in *models.ListingInput) {
		in.Type = string(t)
	}
}

// WithoutRooms clears bedrooms, bathrooms and area
func WithoutRooms() ListingOption {
	return func(in *models.ListingInput) {
		in.Bedrooms = nil
		in.Bathrooms = nil
		in.Area = nil
	}
}
