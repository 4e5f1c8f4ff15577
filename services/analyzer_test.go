package services

import (
	"testing"

	"immo-pipeline/models"
)

func TestAnalyzeMissingness(t *testing.T) {
	listings := make([]*models.Listing, 0, 10)
	for i := 0; i < 10; i++ {
		l := &models.Listing{
			Price:       float64(1_000_000 + i*100_000),
			Surface:     models.Missing(),
			Rooms:       3,
			Transaction: models.TransactionSale,
			Location:    "Hydra",
			Wilaya:      "Alger",
		}
		if i < 8 {
			l.Surface = float64(60 + i*10)
		}
		if i < 2 {
			l.Wilaya = UnknownName
		}
		listings = append(listings, l)
	}

	profiles := NewAnalyzer(newTestLogger()).Analyze(listings)
	byName := make(map[string]models.ColumnProfile)
	for _, p := range profiles {
		byName[p.Name] = p
	}

	if p := byName[ColSurface]; p.MissingCount != 2 || p.MissingPercent != 20 {
		t.Errorf("Surface profile = %d missing (%.1f%%); want 2 (20%%)", p.MissingCount, p.MissingPercent)
	}
	if p := byName[ColPrice]; p.MissingCount != 0 || p.Cardinality != 10 {
		t.Errorf("Price profile = %d missing, %d distinct; want 0, 10", p.MissingCount, p.Cardinality)
	}
	if p := byName[ColWilaya]; p.MissingCount != 2 || p.Kind != models.KindCategorical {
		t.Errorf("Wilaya profile = %d missing, kind %v; want 2, categorical", p.MissingCount, p.Kind)
	}
	if p := byName[ColRooms]; p.Cardinality != 1 {
		t.Errorf("Rooms cardinality = %d; want 1", p.Cardinality)
	}
}

func TestRecommendBuckets(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "none"},
		{2, "simple"},
		{4.9, "simple"},
		{5, "neighbor-based"},
		{19.9, "neighbor-based"},
		{20, "advanced-with-caution"},
		{49.9, "advanced-with-caution"},
		{50, "drop-or-advanced"},
		{90, "drop-or-advanced"},
	}

	for _, tt := range tests {
		if got := Recommend(tt.pct); got != tt.want {
			t.Errorf("Recommend(%.1f) = %q; want %q", tt.pct, got, tt.want)
		}
	}
}
