package services

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"immo-pipeline/models"
	"immo-pipeline/utils"
)

// InsightService computes and prints the cleaning summary.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes per-split price statistics and wilaya rankings.
func (s *InsightService) Generate(sales, rentals []*models.Listing) *models.InsightReport {
	return &models.InsightReport{
		TotalListings: len(sales) + len(rentals),
		Sales:         splitStats(sales),
		Rentals:       splitStats(rentals),
	}
}

func splitStats(listings []*models.Listing) models.SplitStats {
	stats := models.SplitStats{
		Rows:        len(listings),
		MinPrice:    models.Missing(),
		MaxPrice:    models.Missing(),
		MeanPrice:   models.Missing(),
		MedianPrice: models.Missing(),
	}

	prices := make([]float64, 0, len(listings))
	byWilaya := make(map[string]int)
	for _, l := range listings {
		if !models.IsMissing(l.Price) {
			prices = append(prices, l.Price)
		}
		if l.Wilaya != "" {
			byWilaya[l.Wilaya]++
		}
	}

	if len(prices) > 0 {
		stats.MinPrice = floats.Min(prices)
		stats.MaxPrice = floats.Max(prices)
		stats.MeanPrice = stat.Mean(prices, nil)
		stats.MedianPrice = median(prices)
	}

	for w, c := range byWilaya {
		stats.TopWilayas = append(stats.TopWilayas, models.WilayaCount{Wilaya: w, Count: c})
	}
	sort.Slice(stats.TopWilayas, func(i, j int) bool {
		if stats.TopWilayas[i].Count != stats.TopWilayas[j].Count {
			return stats.TopWilayas[i].Count > stats.TopWilayas[j].Count
		}
		return stats.TopWilayas[i].Wilaya < stats.TopWilayas[j].Wilaya
	})
	if len(stats.TopWilayas) > 5 {
		stats.TopWilayas = stats.TopWilayas[:5]
	}
	return stats
}

// Print renders the cleaning summary to the console.
func (s *InsightService) Print(r *models.InsightReport, c *models.CleaningReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  CLEANING SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Input rows            : \033[1m%d\033[0m\n", c.InitialRows)
	fmt.Printf("  No price signal       : %d dropped\n", c.InvalidPriceRows)
	fmt.Printf("  Out of bounds         : %d dropped\n", c.FilteredRows)
	fmt.Printf("  Unusable              : %d dropped\n", c.UnusableRows)
	fmt.Printf("  Cleaned rows          : \033[1m%d\033[0m\n", c.FinalRows)
	if c.FallbackUsed {
		fmt.Printf("  \033[1;31mConservative fallback was used\033[0m\n")
	}
	fmt.Println()

	if c.Imputation != nil {
		sum := c.Imputation.Summary()
		fmt.Printf("\033[1;33m  Imputation\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Columns imputed : %d\n", sum.ColumnsImputed)
		fmt.Printf("  Missing values  : %d → %d (%.1f%% filled)\n",
			sum.MissingBefore, sum.MissingAfter, sum.SuccessRate)
		for _, col := range c.Imputation.Columns {
			fmt.Printf("  %-16s: %-13s %d → %d\n",
				col.Column, col.Strategy, col.MissingBefore, col.MissingAfter)
		}
		fmt.Println()
	}

	printSplit("Sales", r.Sales, thin)
	printSplit("Rentals", r.Rentals, thin)

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

func printSplit(name string, s models.SplitStats, thin string) {
	fmt.Printf("\033[1;33m  %s (%d rows)\033[0m\n", name, s.Rows)
	fmt.Printf("  %s\n", thin)
	if models.IsMissing(s.MeanPrice) {
		fmt.Printf("  No price data available\n\n")
		return
	}
	fmt.Printf("  Min price    : \033[1;32m%.0f DA\033[0m\n", s.MinPrice)
	fmt.Printf("  Max price    : \033[1;32m%.0f DA\033[0m\n", s.MaxPrice)
	fmt.Printf("  Mean price   : \033[1;32m%.0f DA\033[0m\n", s.MeanPrice)
	fmt.Printf("  Median price : \033[1;32m%.0f DA\033[0m\n", s.MedianPrice)
	if len(s.TopWilayas) > 0 {
		fmt.Printf("  Top wilayas  :\n")
		for i, wc := range s.TopWilayas {
			fmt.Printf("    %d. %-28s (%d)\n", i+1, truncate(wc.Wilaya, 26), wc.Count)
		}
	}
	fmt.Println()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
