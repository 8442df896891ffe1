package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultTitle       = "Untitled Property"
	DefaultLocation    = "Location not specified"
	DefaultDescription = "No description available"
	DefaultBathrooms   = 2
	DefaultArea        = 780.0

	DefaultPlaceholderImage = "https://images.pexels.com/photos/1643383/pexels-photo-1643383.jpeg?auto=compress&cs=tinysrgb&w=800"
)

// Normalizer turns raw source records into well-formed listings.
type Normalizer struct {
	placeholderImage string
	newID            func() string
}

func NewNormalizer(placeholderImage string) *Normalizer {
	if placeholderImage == "" {
		placeholderImage = DefaultPlaceholderImage
	}
	return &Normalizer{
		placeholderImage: placeholderImage,
		newID:            uuid.NewString,
	}
}

// NormalizeAll normalizes one fetch worth of records. Ids are unique across
// the returned slice: missing ids are synthesized and repeated ids are
// replaced on every occurrence after the first.
func (n *Normalizer) NormalizeAll(raws []models.RawListing) []models.Listing {
	listings := make([]models.Listing, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for _, raw := range raws {
		listing := n.Normalize(raw)
		for seen[listing.ID] {
			listing.ID = n.newID()
		}
		seen[listing.ID] = true
		listings = append(listings, listing)
	}
	return listings
}

func (n *Normalizer) Normalize(raw models.RawListing) models.Listing {
	id, ok := models.FormatID(raw["id"])
	if !ok {
		id = n.newID()
	}

	listing := models.Listing{
		ID:          id,
		Title:       stringOr(raw["title"], DefaultTitle),
		Location:    stringOr(raw["location"], DefaultLocation),
		Description: stringOr(raw["description"], DefaultDescription),
		Image:       stringOr(raw["image"], n.placeholderImage),
		Type:        stringOr(raw["type"], ""),
	}

	if price, ok := toFloat(raw["price"]); ok && price >= 0 {
		listing.Price = price
	}

	if bedrooms, ok := toCount(raw["bedrooms"]); ok {
		listing.Bedrooms = &bedrooms
	}

	bathrooms, ok := toCount(raw["bathrooms"])
	if !ok {
		bathrooms = DefaultBathrooms
	}
	listing.Bathrooms = &bathrooms

	area, ok := toFloat(raw["area"])
	if !ok || area <= 0 {
		area = DefaultArea
	}
	listing.Area = &area

	return listing
}

func stringOr(v any, fallback string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// toFloat coerces numbers and numeric strings. Non-finite values are
// rejected.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toCount(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
