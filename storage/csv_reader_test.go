package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test csv: %v", err)
	}
	return path
}

func TestReadRawListingsFrenchHeaders(t *testing.T) {
	path := writeTestCSV(t,
		"Titre,Prix,price_unit,Superficie,Chambres,Ville,Wilaya,transaction_type\n"+
			"Appartement F3,2.5,MILLION,124 m²,3,Hydra,Alger,Vente\n"+
			"Villa,8,MILLION,300 m²,6,Bir El Djir,Oran,Location\n")

	listings, err := ReadRawListings(path)
	if err != nil {
		t.Fatalf("ReadRawListings: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("read %d rows; want 2", len(listings))
	}

	first := listings[0]
	if first.Title != "Appartement F3" ||
		first.Price != "2.5" ||
		first.PriceUnit != "MILLION" ||
		first.Surface != "124 m²" ||
		first.Rooms != "3" ||
		first.Location != "Hydra" ||
		first.Wilaya != "Alger" ||
		first.Transaction != "Vente" {
		t.Errorf("french headers not resolved: %+v", first)
	}
}

func TestReadRawListingsRaggedRows(t *testing.T) {
	path := writeTestCSV(t,
		"Title,Price,PriceUnit,Surface\n"+
			"Appartement,2.5,MILLION,124 m²\n"+
			"Villa,8\n")

	listings, err := ReadRawListings(path)
	if err != nil {
		t.Fatalf("ReadRawListings: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("read %d rows; want 2", len(listings))
	}
	// Short rows leave trailing fields empty instead of failing the read.
	if listings[1].Title != "Villa" || listings[1].Price != "8" || listings[1].Surface != "" {
		t.Errorf("ragged row mishandled: %+v", listings[1])
	}
}

func TestReadRawListingsMissingFile(t *testing.T) {
	if _, err := ReadRawListings(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Errorf("expected an error for a missing input file")
	}
}

func TestResolveColumnsCaseInsensitive(t *testing.T) {
	index := resolveColumns([]string{" TITLE ", "prix", "SURFACE", "unrelated"})
	if index["title"] != 0 || index["price"] != 1 || index["surface"] != 2 {
		t.Errorf("resolveColumns = %v", index)
	}
	if _, ok := index["wilaya"]; ok {
		t.Errorf("resolved a column absent from the header")
	}
}
