package storage

import "immo-pipeline/models"

// ListingWriter is the interface any cleaned-data sink must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}
