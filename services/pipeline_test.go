package services

import (
	"fmt"
	"testing"

	"immo-pipeline/models"
)

func rawRow(price, unit, surface, rooms, tx, location, wilaya string) *models.RawListing {
	return &models.RawListing{
		Title:       "Appartement F3",
		Transaction: tx,
		Price:       price,
		PriceUnit:   unit,
		Surface:     surface,
		Rooms:       rooms,
		Location:    location,
		Wilaya:      wilaya,
	}
}

func TestPipelineRun(t *testing.T) {
	raw := make([]*models.RawListing, 0, 22)
	for i := 0; i < 18; i++ {
		raw = append(raw, rawRow(
			fmt.Sprintf("%.1f", 2.0+0.1*float64(i)), "MILLION",
			fmt.Sprintf("%d m²", 60+5*i), "3",
			"Vente", "Hydra", "Alger",
		))
	}
	raw = append(raw,
		rawRow("3.0", "MILLION", "", "4", "Location", "Bir El Djir", "Oran"),  // surface missing
		rawRow("", "", "80 m²", "3", "Vente", "Hydra", "Alger"),               // no price signal
		rawRow("2.2", "MILLION", "80 m²", "2", "Vente", "Hydra", ""),          // wilaya resolvable
		rawRow("2.8", "MILLION", "9000 m²", "3", "Vente", "Hydra", "Alger"),   // surface out of range
	)

	p := NewPipeline(newTestLogger(), VariantFull())
	out, report := p.Run(raw)

	if report.InitialRows != 22 {
		t.Errorf("InitialRows = %d; want 22", report.InitialRows)
	}
	if report.InvalidPriceRows != 1 {
		t.Errorf("InvalidPriceRows = %d; want 1", report.InvalidPriceRows)
	}
	if report.FallbackUsed {
		t.Errorf("imputation engine reported a failure on well-formed input")
	}
	if report.FinalRows != len(out) || len(out) != 21 {
		t.Errorf("FinalRows = %d, len(out) = %d; want both 21", report.FinalRows, len(out))
	}
	if report.Imputation == nil {
		t.Fatalf("no imputation report")
	}

	for i, l := range out {
		if models.IsMissing(l.Price) {
			t.Errorf("row %d: price still missing", i)
		}
		if l.Transaction == models.TransactionUnknown {
			t.Errorf("row %d: transaction unresolved", i)
		}
		if isUnknownName(l.Wilaya) || l.Location == "" {
			t.Errorf("row %d: location fields unresolved: %q/%q", i, l.Location, l.Wilaya)
		}
		if models.IsMissing(l.Surface) {
			t.Errorf("row %d: surface still missing", i)
		}
		if models.IsMissing(l.PricePerSqm) {
			t.Errorf("row %d: price per m² not derived", i)
		}
		if l.PropertyType == "" {
			t.Errorf("row %d: property type not classified", i)
		}
	}

	sales, rentals, other := p.Split(out)
	if len(sales) != 20 || len(rentals) != 1 || len(other) != 0 {
		t.Errorf("Split = %d/%d/%d; want 20/1/0", len(sales), len(rentals), len(other))
	}
}

func TestDropMissingCritical(t *testing.T) {
	listings := []*models.Listing{
		{Price: 1_000_000, Transaction: models.TransactionSale, Location: "Hydra", Wilaya: "Alger"},
		{Price: models.Missing(), Transaction: models.TransactionSale, Location: "Hydra", Wilaya: "Alger"},
		{Price: 1_000_000, Transaction: models.TransactionUnknown, Location: "Hydra", Wilaya: "Alger"},
		{Price: 1_000_000, Transaction: models.TransactionSale, Location: UnknownName, Wilaya: "Alger"},
		{Price: 1_000_000, Transaction: models.TransactionSale, Location: "Hydra", Wilaya: UnknownName},
	}

	kept := dropMissingCritical(listings)
	if len(kept) != 1 || kept[0] != listings[0] {
		t.Errorf("dropMissingCritical kept %d rows; want only the complete one", len(kept))
	}
}

func TestDropUnusable(t *testing.T) {
	listings := []*models.Listing{
		{Price: 1_000_000, Location: UnknownName, Wilaya: UnknownName},      // price saves it
		{Price: models.Missing(), Location: "Hydra", Wilaya: "Alger"},       // location saves it
		{Price: models.Missing(), Location: UnknownName, Wilaya: UnknownName},
		{Price: models.Missing(), Location: "Unknown-Oran", Wilaya: "Oran"}, // wilaya saves it
		{Price: models.Missing(), Location: "Unknown-Oran", Wilaya: UnknownName},
	}

	kept, dropped := dropUnusable(listings)
	if len(kept) != 3 || dropped != 2 {
		t.Fatalf("dropUnusable kept %d, dropped %d; want 3 kept, 2 dropped", len(kept), dropped)
	}
	if kept[0] != listings[0] || kept[1] != listings[1] || kept[2] != listings[3] {
		t.Errorf("wrong rows retained")
	}
}
