package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"immo-pipeline/models"
	"immo-pipeline/utils"
)

// PostgresWriter persists cleaned listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS cleaned_listings (
			id               SERIAL PRIMARY KEY,
			title            TEXT          NOT NULL,
			transaction_type VARCHAR(20)   NOT NULL,
			price            NUMERIC(16,2),
			price_per_sqm    NUMERIC(14,2),
			surface          NUMERIC(8,1),
			rooms            NUMERIC(4,1),
			location         TEXT          NOT NULL DEFAULT '',
			wilaya           TEXT          NOT NULL DEFAULT '',
			property_type    VARCHAR(50)   NOT NULL DEFAULT '',
			description      TEXT          NOT NULL DEFAULT '',
			category         TEXT          NOT NULL DEFAULT '',
			source           TEXT          NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_cleaned_price  ON cleaned_listings(price);
		CREATE INDEX IF NOT EXISTS idx_cleaned_wilaya ON cleaned_listings(wilaya);
		CREATE INDEX IF NOT EXISTS idx_cleaned_type   ON cleaned_listings(transaction_type);
	`)
	return err
}

// Clear deletes all existing listings from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM cleaned_listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL cleaned listings, clearing old data first.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Listing) error {
	const fields = 12
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*fields)

	for idx, l := range batch {
		base := idx * fields
		placeholders := make([]string, fields)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.Title, l.Transaction.String(),
			nullFloat(l.Price), nullFloat(l.PricePerSqm),
			nullFloat(l.Surface), nullFloat(l.Rooms),
			l.Location, l.Wilaya, l.PropertyType,
			l.Description, l.Category, l.Source)
	}

	query := fmt.Sprintf(`
		INSERT INTO cleaned_listings (
			title, transaction_type, price, price_per_sqm, surface, rooms,
			location, wilaya, property_type, description, category, source
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// nullFloat maps the NaN missing sentinel onto SQL NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if models.IsMissing(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
