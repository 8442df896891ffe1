package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dimitrije/listing-browser/internal/models"
)

// ListingSource serves listings out of the listings table, newest first.
// Rows are emitted as JSON objects so they go through the same
// normalization as records from the HTTP endpoint.
type ListingSource struct {
	db *DB
}

func NewListingSource(db *DB) *ListingSource {
	return &ListingSource{db: db}
}

func (s *ListingSource) Fetch(ctx context.Context) ([]models.RawListing, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT json_build_object(
			'id', id::text,
			'title', title,
			'price', price,
			'location', location,
			'description', description,
			'image', image,
			'bedrooms', bedrooms,
			'bathrooms', bathrooms,
			'area', area,
			'type', type
		)::text
		FROM listings
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	raws := []models.RawListing{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}

		dec := json.NewDecoder(strings.NewReader(doc))
		dec.UseNumber()
		var raw models.RawListing
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode listing row: %w", err)
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return raws, nil
}

func (s *ListingSource) Submit(ctx context.Context, input models.ListingInput) (string, error) {
	var id string
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO listings (title, price, location, description, image, bedrooms, bathrooms, area, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text
	`, input.Title, input.Price, input.Location, input.Description,
		nullString(input.Image), input.Bedrooms, input.Bathrooms, input.Area, nullString(input.Type),
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *ListingSource) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
