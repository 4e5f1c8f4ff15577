package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"immo-pipeline/models"
)

// columnAliases maps each canonical field to the raw header names seen
// across scrape sources. A static table, resolved once per file.
var columnAliases = map[string][]string{
	"title":       {"Title", "Titre"},
	"transaction": {"TransactionType", "Transaction", "transaction_type"},
	"price":       {"Price", "Prix"},
	"price_unit":  {"PriceUnit", "price_unit", "Unit"},
	"surface":     {"Surface", "Area", "Superficie"},
	"rooms":       {"Rooms", "NbRooms", "Chambres"},
	"location":    {"Location", "Ville"},
	"wilaya":      {"Wilaya"},
	"description": {"Description"},
	"category":    {"Category"},
	"source":      {"Source"},
	"date":        {"Date"},
	"link":        {"Link", "URL"},
	"images":      {"ImageURLs", "image_urls", "Images"},
}

// ReadRawListings reads the scraped CSV into raw rows. Header names are
// resolved through the alias table, case-insensitively; columns without a
// match are simply absent. An unreadable file is a fatal condition for
// the caller.
func ReadRawListings(path string) ([]*models.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open input %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	index := resolveColumns(header)

	var listings []*models.RawListing
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		listings = append(listings, &models.RawListing{
			Title:       field("title"),
			Transaction: field("transaction"),
			Price:       field("price"),
			PriceUnit:   field("price_unit"),
			Surface:     field("surface"),
			Rooms:       field("rooms"),
			Location:    field("location"),
			Wilaya:      field("wilaya"),
			Description: field("description"),
			Category:    field("category"),
			Source:      field("source"),
			Date:        field("date"),
			Link:        field("link"),
			ImageURLs:   field("images"),
		})
	}

	return listings, nil
}

// resolveColumns maps canonical field names to header positions.
func resolveColumns(header []string) map[string]int {
	index := make(map[string]int)
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			for i, h := range header {
				if strings.EqualFold(strings.TrimSpace(h), alias) {
					if _, taken := index[canonical]; !taken {
						index[canonical] = i
					}
				}
			}
		}
	}
	return index
}
