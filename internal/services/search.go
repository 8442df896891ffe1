package services

import (
	"strings"

	"github.com/dimitrije/listing-browser/internal/models"
)

// Filter returns the listings whose title, location, type or description
// contains query, ignoring case. A blank query returns listings as is.
// The input slice is never modified.
func Filter(listings []models.Listing, query string) []models.Listing {
	if strings.TrimSpace(query) == "" {
		return listings
	}

	term := strings.ToLower(query)
	matched := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if matches(l, term) {
			matched = append(matched, l)
		}
	}
	return matched
}

func matches(l models.Listing, term string) bool {
	return strings.Contains(strings.ToLower(l.Title), term) ||
		strings.Contains(strings.ToLower(l.Location), term) ||
		(l.Type != "" && strings.Contains(strings.ToLower(l.Type), term)) ||
		strings.Contains(strings.ToLower(l.Description), term)
}
