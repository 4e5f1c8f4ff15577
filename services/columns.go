package services

import "immo-pipeline/models"

// Canonical column names used by the analyzer, selector and engine.
const (
	ColPrice       = "Price"
	ColSurface     = "Surface"
	ColRooms       = "Rooms"
	ColTransaction = "TransactionType"
	ColLocation    = "Location"
	ColWilaya      = "Wilaya"
)

// numericColumn gives the engine read/write access to one numeric field.
type numericColumn struct {
	name string
	get  func(*models.Listing) float64
	set  func(*models.Listing, float64)
}

// categoricalColumn gives read/write access to one categorical field.
// Missingness is the Unknown sentinel, not the empty string.
type categoricalColumn struct {
	name    string
	get     func(*models.Listing) string
	set     func(*models.Listing, string)
	missing func(string) bool
}

func numericColumns() []numericColumn {
	return []numericColumn{
		{
			name: ColPrice,
			get:  func(l *models.Listing) float64 { return l.Price },
			set:  func(l *models.Listing, v float64) { l.Price = v },
		},
		{
			name: ColSurface,
			get:  func(l *models.Listing) float64 { return l.Surface },
			set:  func(l *models.Listing, v float64) { l.Surface = v },
		},
		{
			name: ColRooms,
			get:  func(l *models.Listing) float64 { return l.Rooms },
			set:  func(l *models.Listing, v float64) { l.Rooms = v },
		},
	}
}

func isUnknownName(s string) bool { return s == "" || s == UnknownName }

func categoricalColumns() []categoricalColumn {
	return []categoricalColumn{
		{
			name:    ColTransaction,
			get:     func(l *models.Listing) string { return l.Transaction.String() },
			set:     func(l *models.Listing, v string) { l.Transaction = models.ParseTransactionType(v) },
			missing: func(s string) bool { return s == models.TransactionUnknown.String() },
		},
		{
			name:    ColLocation,
			get:     func(l *models.Listing) string { return l.Location },
			set:     func(l *models.Listing, v string) { l.Location = v },
			missing: isUnknownName,
		},
		{
			name:    ColWilaya,
			get:     func(l *models.Listing) string { return l.Wilaya },
			set:     func(l *models.Listing, v string) { l.Wilaya = v },
			missing: isUnknownName,
		},
	}
}
