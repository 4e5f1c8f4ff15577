package models

// WilayaCount is one entry of a top-wilayas ranking.
type WilayaCount struct {
	Wilaya string
	Count  int
}

// SplitStats holds the price statistics for one transaction split.
type SplitStats struct {
	Rows        int
	MinPrice    float64
	MaxPrice    float64
	MeanPrice   float64
	MedianPrice float64
	TopWilayas  []WilayaCount
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalListings int
	Sales         SplitStats
	Rentals       SplitStats
}
