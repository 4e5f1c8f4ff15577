package main

import (
	"fmt"
	"os"
	"path/filepath"

	"immo-pipeline/config"
	"immo-pipeline/models"
	"immo-pipeline/services"
	"immo-pipeline/storage"
	"immo-pipeline/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	if cfg.Debug {
		logger.EnableDebug()
	}

	logger.Info("=== Real-estate cleaning pipeline starting ===")
	logger.Info("Config: input=%s | output=%s | variant=%s",
		cfg.InputCSVPath, cfg.OutputDir, cfg.Variant)

	raw, err := storage.ReadRawListings(cfg.InputCSVPath)
	if err != nil {
		logger.Error("Failed to read input CSV: %v", err)
		os.Exit(1)
	}
	if len(raw) == 0 {
		logger.Error("Input CSV contains no rows. Exiting.")
		os.Exit(1)
	}
	logger.Info("Loaded %d raw listings from %s", len(raw), cfg.InputCSVPath)

	pipeline := services.NewPipeline(logger, services.VariantByName(cfg.Variant))
	cleaned, report := pipeline.Run(raw)

	if len(cleaned) == 0 {
		logger.Error("All listings were dropped during cleaning. Exiting.")
		os.Exit(1)
	}

	sales, rentals, other := pipeline.Split(cleaned)
	if len(other) > 0 {
		logger.Warn("%d listings had no resolvable transaction type", len(other))
	}

	if err := writeCSV(filepath.Join(cfg.OutputDir, "immobilier_sales.csv"), sales, false); err != nil {
		logger.Error("Sales CSV write failed: %v", err)
		os.Exit(1)
	}
	if err := writeCSV(filepath.Join(cfg.OutputDir, "immobilier_rental.csv"), rentals, false); err != nil {
		logger.Error("Rental CSV write failed: %v", err)
		os.Exit(1)
	}
	if cfg.WriteCombined {
		if err := writeCSV(filepath.Join(cfg.OutputDir, "immobilier_cleaned_full.csv"), cleaned, true); err != nil {
			logger.Error("Combined CSV write failed: %v", err)
			os.Exit(1)
		}
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()

		if err := pgWriter.Write(cleaned); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Cleaned listings stored in PostgreSQL (table: cleaned_listings)")
		}
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(sales, rentals), report)

	fmt.Printf("  Done. Cleaned data → %s (sales: %d, rental: %d)\n\n",
		cfg.OutputDir, len(sales), len(rentals))
}

func writeCSV(path string, listings []*models.Listing, includeTransaction bool) error {
	w, err := storage.NewCSVWriter(path, includeTransaction)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Write(listings)
}
