package services

import (
	"testing"

	"immo-pipeline/models"
)

func TestSplitPartitionsByTransaction(t *testing.T) {
	listings := make([]*models.Listing, 0, 100)
	for i := 0; i < 60; i++ {
		listings = append(listings, &models.Listing{Transaction: models.TransactionSale})
	}
	for i := 0; i < 40; i++ {
		listings = append(listings, &models.Listing{Transaction: models.TransactionRental})
	}

	sales, rentals, other := NewSplitter(newTestLogger()).Split(listings)
	if len(sales) != 60 || len(rentals) != 40 || len(other) != 0 {
		t.Errorf("Split = %d/%d/%d; want 60/40/0", len(sales), len(rentals), len(other))
	}
	if len(sales)+len(rentals)+len(other) != len(listings) {
		t.Errorf("partitions do not cover the input")
	}
}

func TestSplitUnresolvedBucket(t *testing.T) {
	listings := []*models.Listing{
		{Transaction: models.TransactionSale},
		{Transaction: models.TransactionUnknown},
		{Transaction: models.TransactionRental},
	}

	sales, rentals, other := NewSplitter(newTestLogger()).Split(listings)
	if len(sales) != 1 || len(rentals) != 1 || len(other) != 1 {
		t.Errorf("Split = %d/%d/%d; want 1/1/1", len(sales), len(rentals), len(other))
	}
	if other[0] != listings[1] {
		t.Errorf("unresolved row landed in the wrong partition")
	}
}
