package models

import "strings"

// PriceUnit tags how a raw listing price is denominated.
type PriceUnit int

const (
	UnitUnknown PriceUnit = iota
	UnitBase
	UnitThousand
	UnitMillion
	UnitBillion
	UnitPerSquare
	UnitMillionPerSquare
)

// ParsePriceUnit maps the scraper's unit tags onto a PriceUnit.
func ParsePriceUnit(s string) PriceUnit {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UNIT", "DA":
		return UnitBase
	case "THOUSAND":
		return UnitThousand
	case "MILLION":
		return UnitMillion
	case "BILLION", "MILLIARD":
		return UnitBillion
	case "UNIT_PER_SQUARE":
		return UnitPerSquare
	case "MILLION_PER_SQUARE":
		return UnitMillionPerSquare
	default:
		return UnitUnknown
	}
}

// Multiplier converts a raw price in this unit to base DA. Per-square
// prices stay in their quoted scale: callers must check PerArea before
// comparing against whole-property prices.
func (u PriceUnit) Multiplier() float64 {
	switch u {
	case UnitThousand:
		return 1e3
	case UnitMillion, UnitMillionPerSquare:
		return 1e6
	case UnitBillion:
		return 1e9
	default:
		return 1
	}
}

// PerArea reports whether the price is quoted per square metre.
func (u PriceUnit) PerArea() bool {
	return u == UnitPerSquare || u == UnitMillionPerSquare
}

// TransactionType is the listing's transaction category.
type TransactionType int

const (
	TransactionUnknown TransactionType = iota
	TransactionSale
	TransactionRental
)

// ParseTransactionType recognises the sale/rental labels seen across
// sources, French and English.
func ParseTransactionType(s string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale", "vente", "sell":
		return TransactionSale
	case "rent", "rental", "location", "louer":
		return TransactionRental
	default:
		return TransactionUnknown
	}
}

func (t TransactionType) String() string {
	switch t {
	case TransactionSale:
		return "Sale"
	case TransactionRental:
		return "Rental"
	default:
		return "Unknown"
	}
}
