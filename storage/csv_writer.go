package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"immo-pipeline/models"
)

// CSVWriter writes cleaned listings to a CSV file with the normalized
// column set. Split files omit the transaction column; the combined file
// keeps it.
type CSVWriter struct {
	file               *os.File
	writer             *csv.Writer
	includeTransaction bool
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created
// automatically; output is UTF-8.
func NewCSVWriter(path string, includeTransaction bool) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	header := []string{"title"}
	if includeTransaction {
		header = append(header, "transaction_type")
	}
	header = append(header,
		"price", "price_per_sqm", "location", "wilaya", "description",
		"surface", "rooms", "property_type", "category", "source",
		"date", "link", "image_urls",
	)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, includeTransaction: includeTransaction}, nil
}

// Write appends all listings to the file.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	for _, l := range listings {
		row := []string{l.Title}
		if c.includeTransaction {
			row = append(row, l.Transaction.String())
		}
		row = append(row,
			formatFloat(l.Price),
			formatFloat(l.PricePerSqm),
			l.Location,
			l.Wilaya,
			l.Description,
			formatFloat(l.Surface),
			formatFloat(l.Rooms),
			l.PropertyType,
			l.Category,
			l.Source,
			l.Date,
			l.Link,
			l.ImageURLs,
		)
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// formatFloat renders a numeric field, with missing values as empty cells.
func formatFloat(v float64) string {
	if models.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
