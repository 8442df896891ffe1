package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/dimitrije/listing-browser/internal/services"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormValue accepts a JSON string or number and keeps it as text, the way
// an HTML form field would hold it.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("form value must be a string or number")
	}
	*v = FormValue(n.String())
	return nil
}

type CreateListingRequest struct {
	Title       FormValue `json:"title"`
	Price       FormValue `json:"price"`
	Location    FormValue `json:"location"`
	Description FormValue `json:"description"`
	Bedrooms    FormValue `json:"bedrooms,omitempty"`
	Bathrooms   FormValue `json:"bathrooms,omitempty"`
	Area        FormValue `json:"area,omitempty"`
	Type        FormValue `json:"type,omitempty"`
	Image       FormValue `json:"image,omitempty"`
}

type ListingResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Price          float64  `json:"price"`
	FormattedPrice string   `json:"formatted_price"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Image          string   `json:"image,omitempty"`
	Bedrooms       *int     `json:"bedrooms,omitempty"`
	BedroomsLabel  string   `json:"bedrooms_label,omitempty"`
	Bathrooms      *int     `json:"bathrooms,omitempty"`
	BathroomsLabel string   `json:"bathrooms_label,omitempty"`
	Area           *float64 `json:"area,omitempty"`
	FormattedArea  string   `json:"formatted_area,omitempty"`
	Type           string   `json:"type,omitempty"`
}

type ListingsResponse struct {
	Status   string            `json:"status"`
	Error    string            `json:"error,omitempty"`
	Query    string            `json:"query,omitempty"`
	Count    int               `json:"count"`
	Listings []ListingResponse `json:"listings"`
}

type CreateListingResponse struct {
	ID      string           `json:"id,omitempty"`
	Listing *ListingResponse `json:"listing,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

type RefreshResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

func NewListingResponse(l models.Listing) ListingResponse {
	resp := ListingResponse{
		ID:             l.ID,
		Title:          l.Title,
		Price:          l.Price,
		FormattedPrice: FormatUSD(l.Price),
		Location:       l.Location,
		Description:    l.Description,
		Image:          l.Image,
		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms,
		Area:           l.Area,
		Type:           l.Type,
	}
	if l.Bedrooms != nil {
		resp.BedroomsLabel = PluralLabel(*l.Bedrooms, "Bedroom")
	}
	if l.Bathrooms != nil {
		resp.BathroomsLabel = PluralLabel(*l.Bathrooms, "Bathroom")
	}
	if l.Area != nil {
		resp.FormattedArea = usd.Sprintf("%v sq ft", formatNumber(*l.Area))
	}
	return resp
}

func NewListingResponses(listings []models.Listing) []ListingResponse {
	out := make([]ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = NewListingResponse(l)
	}
	return out
}

// FormatUSD renders a price in US dollars without cents, e.g. $450,000.
func FormatUSD(price float64) string {
	return usd.Sprintf("$%.0f", math.Round(price))
}

func PluralLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) {
		return usd.Sprintf("%.0f", f)
	}
	return strings.TrimRight(usd.Sprintf("%.3f", f), "0")
}

func (r CreateListingRequest) ToForm() services.ListingForm {
	return services.ListingForm{
		Title:       string(r.Title),
		Price:       string(r.Price),
		Location:    string(r.Location),
		Description: string(r.Description),
		Bedrooms:    string(r.Bedrooms),
		Bathrooms:   string(r.Bathrooms),
		Area:        string(r.Area),
		Type:        string(r.Type),
		Image:       string(r.Image),
	}
}
