package engine

import "github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func ids(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func sampleListings() []domain.Listing {
	return []domain.Listing{
		{ID: "1", Title: "Cozy Cottage", City: "Accra", State: "Greater Accra", Location: "Accra, Greater Accra", PropertyType: "House", Category: "For Sale", Price: 90000, Bedrooms: intPtr(2)},
		{ID: "2", Title: "City Flat", City: "Kumasi", State: "Ashanti", Location: "Kumasi, Ashanti", PropertyType: "Apartment", Category: "FOR_RENT", Price: 150000, Bedrooms: intPtr(1)},
		{ID: "3", Title: "beach villa", City: "Takoradi", State: "Western", Location: "Takoradi, Western", PropertyType: "House", Category: "For Sale", Price: 450000, Bedrooms: intPtr(5)},
		{ID: "4", Title: "Open Plot", City: "Tema", State: "Greater Accra", PropertyType: "Land", Category: "for_sale", Price: 0},
	}
}
