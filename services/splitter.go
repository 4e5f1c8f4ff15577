package services

import (
	"immo-pipeline/models"
	"immo-pipeline/utils"
)

// Splitter partitions the cleaned table by transaction category.
type Splitter struct {
	logger *utils.Logger
}

// NewSplitter creates a Splitter with the given logger.
func NewSplitter(logger *utils.Logger) *Splitter {
	return &Splitter{logger: logger}
}

// Split partitions listings into sales, rentals, and a remainder bucket
// for rows whose category never resolved. Every row lands in exactly one
// partition.
func (s *Splitter) Split(listings []*models.Listing) (sales, rentals, other []*models.Listing) {
	for _, l := range listings {
		switch l.Transaction {
		case models.TransactionSale:
			sales = append(sales, l)
		case models.TransactionRental:
			rentals = append(rentals, l)
		default:
			other = append(other, l)
		}
	}
	s.logger.Info("[split] %d sales, %d rentals, %d unresolved", len(sales), len(rentals), len(other))
	return sales, rentals, other
}
