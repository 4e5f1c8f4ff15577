package services

import (
	"math"
	"testing"

	"immo-pipeline/models"
)

func TestPricePerSquareMetre(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		surface float64
		want    float64
	}{
		{"exact division", 2_500_000, 124, 2_500_000.0 / 124},
		{"missing price", models.Missing(), 100, models.Missing()},
		{"missing surface", 2_500_000, models.Missing(), models.Missing()},
		{"zero surface", 2_500_000, 0, models.Missing()},
		{"negative surface", 2_500_000, -10, models.Missing()},
		{"infinite ratio", math.MaxFloat64, 1e-310, models.Missing()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PricePerSquareMetre(tt.price, tt.surface)
			if models.IsMissing(tt.want) {
				if !models.IsMissing(got) {
					t.Errorf("PricePerSquareMetre(%v, %v) = %v; want missing", tt.price, tt.surface, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("PricePerSquareMetre(%v, %v) = %v; want %v", tt.price, tt.surface, got, tt.want)
			}
		})
	}
}

func TestPropertyTypeFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Appartement F3 à Hydra", "Appartement"},
		{"VILLA avec piscine", "Villa"},
		{"Belle maison de campagne", "Maison"},
		{"Terrain 500m2", "Terrain"},
		{"Local commercial", "Local"},
		{"Studio meublé", "Studio"},
		// First keyword in order wins when several match.
		{"Appartement style studio", "Appartement"},
		{"Duplex haut standing", "Autre"},
		{"", "Unknown"},
		{"   ", "Unknown"},
	}

	for _, tt := range tests {
		if got := PropertyTypeFromTitle(tt.title); got != tt.want {
			t.Errorf("PropertyTypeFromTitle(%q) = %q; want %q", tt.title, got, tt.want)
		}
	}
}

func TestPropertyTypeFromSurface(t *testing.T) {
	tests := []struct {
		surface float64
		want    string
	}{
		{30, "Studio/Small Apartment"},
		{50, "Studio/Small Apartment"},
		{50.1, "Medium Apartment"},
		{100, "Medium Apartment"},
		{150, "Large Apartment"},
		{200, "Large Apartment"},
		{201, "House/Villa"},
		{models.Missing(), "Unknown"},
	}

	for _, tt := range tests {
		if got := PropertyTypeFromSurface(tt.surface); got != tt.want {
			t.Errorf("PropertyTypeFromSurface(%v) = %q; want %q", tt.surface, got, tt.want)
		}
	}
}

func TestFeatureBuilderPolicies(t *testing.T) {
	listing := func() *models.Listing {
		return &models.Listing{Title: "Villa à Oran", Price: 30_000_000, Surface: 300}
	}

	byTitle := listing()
	NewFeatureBuilder(newTestLogger(), ClassifyByTitle).Build([]*models.Listing{byTitle})
	if byTitle.PropertyType != "Villa" {
		t.Errorf("title policy: PropertyType = %q; want Villa", byTitle.PropertyType)
	}
	if byTitle.PricePerSqm != 100_000 {
		t.Errorf("PricePerSqm = %v; want 100000", byTitle.PricePerSqm)
	}

	bySurface := listing()
	NewFeatureBuilder(newTestLogger(), ClassifyBySurface).Build([]*models.Listing{bySurface})
	if bySurface.PropertyType != "House/Villa" {
		t.Errorf("surface policy: PropertyType = %q; want House/Villa", bySurface.PropertyType)
	}
}
