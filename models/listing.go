package models

import "math"

// RawListing holds one unprocessed row as read from the scraped CSV.
// Every field is kept as the raw string; parsing happens in the cleaning
// pipeline, never at read time.
type RawListing struct {
	Title       string
	Transaction string
	Price       string
	PriceUnit   string
	Surface     string
	Rooms       string
	Location    string
	Wilaya      string
	Description string
	Category    string
	Source      string
	Date        string
	Link        string
	ImageURLs   string
}

// Listing is the typed record mutated in place by the pipeline stages.
// Numeric fields use NaN as the missing sentinel; Price is in base DA
// after unit normalization.
type Listing struct {
	Title        string
	Transaction  TransactionType
	Price        float64
	PerArea      bool
	PricePerSqm  float64
	Surface      float64
	Rooms        float64
	Location     string
	Wilaya       string
	Description  string
	PropertyType string

	// Passthrough metadata, untouched by cleaning.
	Category  string
	Source    string
	Date      string
	Link      string
	ImageURLs string
}

// Missing is the sentinel for absent numeric values.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a numeric field is absent.
func IsMissing(v float64) bool { return math.IsNaN(v) }
