package services

import (
	"testing"

	"immo-pipeline/models"
	"immo-pipeline/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func newTestNormalizer() *Normalizer {
	return NewNormalizer(newTestLogger(), VariantFull().Bounds)
}

func TestNormalizePriceUnits(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		unit models.PriceUnit
		want float64
	}{
		{"2.5", models.UnitMillion, 2_500_000},
		{"3", models.UnitBillion, 3_000_000_000},
		{"1500", models.UnitBase, 1500},
		{"120", models.UnitThousand, 120_000},
		{"85000", models.UnitPerSquare, 85000},
		{"0.15", models.UnitMillionPerSquare, 150_000},
		{"4200", models.UnitUnknown, 4200},
	}

	for _, tt := range tests {
		got := n.NormalizePrice(tt.raw, tt.unit)
		if got != tt.want {
			t.Errorf("NormalizePrice(%q, %v) = %v; want %v", tt.raw, tt.unit, got, tt.want)
		}
	}
}

func TestNormalizePriceMissing(t *testing.T) {
	n := newTestNormalizer()

	tests := []string{"", "free", "-5", "0", "prix sur demande"}
	for _, raw := range tests {
		if got := n.NormalizePrice(raw, models.UnitMillion); !models.IsMissing(got) {
			t.Errorf("NormalizePrice(%q) = %v; want missing", raw, got)
		}
	}
}

func TestParsePriceValueSeparators(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1,200.50", 1200.50},
		{"1 500 000 DA", 1_500_000},
		{"1234,5", 1234.5},
		{"1,234", 1234},
		{"12,345,678", 12_345_678},
	}

	for _, tt := range tests {
		got, ok := parsePriceValue(tt.raw)
		if !ok || got != tt.want {
			t.Errorf("parsePriceValue(%q) = %v, %v; want %v", tt.raw, got, ok, tt.want)
		}
	}
}

func TestParseSurface(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		want float64 // NaN means missing
	}{
		{"['124 m²']", 124},
		{"250 m2", 250},
		{"80m²", 80},
		{"45.5 m²", 45.5},
		{"120 M2", 120},
		{"abc", models.Missing()},
		{"", models.Missing()},
		{"3 m²", models.Missing()},    // below plausible bound
		{"9000 m²", models.Missing()}, // above plausible bound
	}

	for _, tt := range tests {
		got := n.ParseSurface(tt.raw)
		if models.IsMissing(tt.want) {
			if !models.IsMissing(got) {
				t.Errorf("ParseSurface(%q) = %v; want missing", tt.raw, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSurface(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseRooms(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		want float64
	}{
		{"['3 pièces']", 3},
		{"F4", 4},
		{"5 chambres", 5},
		{"25 pièces", models.Missing()},
		{"0", models.Missing()},
		{"", models.Missing()},
		{"studio", models.Missing()},
	}

	for _, tt := range tests {
		got := n.ParseRooms(tt.raw)
		if models.IsMissing(tt.want) {
			if !models.IsMissing(got) {
				t.Errorf("ParseRooms(%q) = %v; want missing", tt.raw, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRooms(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCleanDescription(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"Bel   appartement \n à vendre", "Bel appartement à vendre"},
		{"🏡✨ Villa 📞 0555", "Villa 0555"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := n.CleanDescription(tt.raw); got != tt.want {
			t.Errorf("CleanDescription(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanName(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{" wilaya de alger ", "Alger"},
		{"ORAN province", "Oran"},
		{"bab   ezzouar", "Bab Ezzouar"},
		{"", UnknownName},
		{"   ", UnknownName},
	}

	for _, tt := range tests {
		if got := n.CleanName(tt.raw); got != tt.want {
			t.Errorf("CleanName(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeScrapedRow(t *testing.T) {
	n := newTestNormalizer()
	raw := []*models.RawListing{
		{
			Title:       "Appartement F3",
			Transaction: "Vente",
			Price:       "2.5",
			PriceUnit:   "MILLION",
			Surface:     "['124 m²']",
			Rooms:       "['3 pièces']",
			Location:    "hydra",
			Wilaya:      "alger",
		},
	}

	listings, dropped := n.Normalize(raw)
	if dropped != 0 || len(listings) != 1 {
		t.Fatalf("Normalize dropped %d rows, kept %d; want 0 dropped, 1 kept", dropped, len(listings))
	}

	l := listings[0]
	if l.Price != 2_500_000 {
		t.Errorf("Price = %v; want 2500000", l.Price)
	}
	if l.Surface != 124.0 {
		t.Errorf("Surface = %v; want 124", l.Surface)
	}
	if l.Rooms != 3 {
		t.Errorf("Rooms = %v; want 3", l.Rooms)
	}
	if l.Transaction != models.TransactionSale {
		t.Errorf("Transaction = %v; want Sale", l.Transaction)
	}
}

func TestNormalizeDropsRowsWithoutPriceSignal(t *testing.T) {
	n := newTestNormalizer()
	raw := []*models.RawListing{
		{Title: "No price at all", Price: "", PriceUnit: ""},
		{Title: "Unit only", Price: "", PriceUnit: "MILLION"},
		{Title: "Priced", Price: "3", PriceUnit: "MILLION"},
	}

	listings, dropped := n.Normalize(raw)
	if dropped != 1 {
		t.Errorf("dropped = %d; want 1", dropped)
	}
	if len(listings) != 2 {
		t.Errorf("kept = %d; want 2", len(listings))
	}
	if !models.IsMissing(listings[0].Price) {
		t.Errorf("unit-only row should have missing price, got %v", listings[0].Price)
	}
}
