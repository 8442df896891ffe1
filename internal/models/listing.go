package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "House"
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeCondo     PropertyType = "Condo"
	PropertyTypeTownhouse PropertyType = "Townhouse"
	PropertyTypeStudio    PropertyType = "Studio"
)

// MaxPrice is the largest price the listings table can store, NUMERIC(14,2).
const MaxPrice = 999_999_999_999.99

var PropertyTypes = []PropertyType{
	PropertyTypeHouse,
	PropertyTypeApartment,
	PropertyTypeCondo,
	PropertyTypeTownhouse,
	PropertyTypeStudio,
}

type Listing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Bedrooms    *int     `json:"bedrooms,omitempty"`
	Bathrooms   *int     `json:"bathrooms,omitempty"`
	Area        *float64 `json:"area,omitempty"`
	Type        string   `json:"type,omitempty"`
}

// ListingInput is a candidate listing before the source assigns an id.
type ListingInput struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Bedrooms    *int     `json:"bedrooms,omitempty"`
	Bathrooms   *int     `json:"bathrooms,omitempty"`
	Area        *float64 `json:"area,omitempty"`
	Type        string   `json:"type,omitempty"`
}

// RawListing is a listing-like record as decoded from a source, before
// normalization.
type RawListing map[string]any

// ToRaw renders the input the way a remote source would echo it back.
func (in ListingInput) ToRaw(id string) RawListing {
	raw := RawListing{
		"title":       in.Title,
		"price":       in.Price,
		"location":    in.Location,
		"description": in.Description,
	}
	if id != "" {
		raw["id"] = id
	}
	if in.Image != "" {
		raw["image"] = in.Image
	}
	if in.Bedrooms != nil {
		raw["bedrooms"] = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		raw["bathrooms"] = *in.Bathrooms
	}
	if in.Area != nil {
		raw["area"] = *in.Area
	}
	if in.Type != "" {
		raw["type"] = in.Type
	}
	return raw
}

// ToInput drops the id, leaving what a caller would submit.
func (l Listing) ToInput() ListingInput {
	return ListingInput{
		Title:       l.Title,
		Price:       l.Price,
		Location:    l.Location,
		Description: l.Description,
		Image:       l.Image,
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		Area:        l.Area,
		Type:        l.Type,
	}
}

// ToRaw is the inverse of normalization for an already well-formed listing.
func (l Listing) ToRaw() RawListing {
	return l.ToInput().ToRaw(l.ID)
}

// FormatID renders an identifier of any JSON-ish type as a string.
// Integral numbers are rendered without a fractional part. The second
// result is false when v carries no usable identifier.
func FormatID(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return strconv.FormatInt(n, 10), true
		}
		if f, err := id.Float64(); err == nil {
			return FormatID(f)
		}
		raw := strings.TrimSpace(id.String())
		return raw, raw != ""
	case float64:
		if math.IsNaN(id) || math.IsInf(id, 0) {
			return "", false
		}
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case bool:
		return "", false
	default:
		return "", false
	}
}
