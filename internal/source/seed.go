package source

import "github.com/dimitrije/listing-browser/internal/models"

// SeedListings returns the fixed listings used when no remote source is
// configured. Every call returns fresh values.
func SeedListings() []models.Listing {
	return []models.Listing{
		{
			ID:          "1",
			Title:       "Modern Downtown Apartment",
			Price:       450000,
			Location:    "Downtown, New York",
			Description: "Stunning modern apartment in the heart of downtown with floor-to-ceiling windows, hardwood floors, and breathtaking city views.",
			Image:       "https://images.pexels.com/photos/1396122/pexels-photo-1396122.jpeg?auto=compress&cs=tinysrgb&w=800",
			Bedrooms:    intPtr(2),
			Bathrooms:   intPtr(2),
			Area:        floatPtr(1200),
			Type:        string(models.PropertyTypeApartment),
		},
		{
			ID:          "2",
			Title:       "Cozy Suburban House",
			Price:       325000,
			Location:    "Maple Heights, Ohio",
			Description: "Charming family home in a quiet neighborhood with a large backyard, updated kitchen, and a two-car garage.",
			Image:       "https://images.pexels.com/photos/106399/pexels-photo-106399.jpeg?auto=compress&cs=tinysrgb&w=800",
			Bedrooms:    intPtr(3),
			Bathrooms:   intPtr(2),
			Area:        floatPtr(1800),
			Type:        string(models.PropertyTypeHouse),
		},
		{
			ID:          "3",
			Title:       "Luxury Waterfront Condo",
			Price:       875000,
			Location:    "Miami Beach, Florida",
			Description: "Elegant condo with direct ocean views, private balcony, resort-style pool, and 24-hour concierge service.",
			Image:       "https://images.pexels.com/photos/1918291/pexels-photo-1918291.jpeg?auto=compress&cs=tinysrgb&w=800",
			Bedrooms:    intPtr(3),
			Bathrooms:   intPtr(3),
			Area:        floatPtr(2100),
			Type:        string(models.PropertyTypeCondo),
		},
		{
			ID:          "4",
			Title:       "Sunny Studio Loft",
			Price:       189000,
			Location:    "Capitol Hill, Seattle",
			Description: "Bright open-plan studio with high ceilings, exposed brick, and walkable access to cafes and parks.",
			Image:       "https://images.pexels.com/photos/271624/pexels-photo-271624.jpeg?auto=compress&cs=tinysrgb&w=800",
			Bedrooms:    intPtr(0),
			Bathrooms:   intPtr(1),
			Area:        floatPtr(550),
			Type:        string(models.PropertyTypeStudio),
		},
	}
}

func intPtr(n int) *int {
	return &n
}

func floatPtr(f float64) *float64 {
	return &f
}
