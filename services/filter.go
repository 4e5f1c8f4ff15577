package services

import (
	"immo-pipeline/models"
	"immo-pipeline/utils"
)

// RangeFilter drops rows whose normalized values fall outside the
// domain-plausible bounds. A missing value passes every range check;
// only out-of-range observed values remove a row. Running the filter
// twice yields the same row count as running it once.
type RangeFilter struct {
	logger *utils.Logger
	bounds Bounds
}

// NewRangeFilter creates a RangeFilter for the given bounds table.
func NewRangeFilter(logger *utils.Logger, bounds Bounds) *RangeFilter {
	return &RangeFilter{logger: logger, bounds: bounds}
}

// Apply returns the retained rows and the count of dropped rows.
func (f *RangeFilter) Apply(listings []*models.Listing) ([]*models.Listing, int) {
	kept := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if f.keep(l) {
			kept = append(kept, l)
		}
	}
	dropped := len(listings) - len(kept)
	if dropped > 0 {
		f.logger.Info("[filter] dropped %d rows outside plausible bounds", dropped)
	}
	return kept, dropped
}

func (f *RangeFilter) keep(l *models.Listing) bool {
	if !models.IsMissing(l.Price) {
		min, max := f.bounds.PriceMin, f.bounds.PriceMax
		if l.PerArea {
			min, max = f.bounds.PerAreaPriceMin, f.bounds.PerAreaPriceMax
		}
		if l.Price < min || l.Price > max {
			return false
		}
	}
	if !models.IsMissing(l.Surface) {
		if l.Surface < f.bounds.SurfaceMin || l.Surface > f.bounds.SurfaceMax {
			return false
		}
	}
	if !models.IsMissing(l.Rooms) {
		if l.Rooms < f.bounds.RoomsMin || l.Rooms > f.bounds.RoomsMax {
			return false
		}
	}
	return true
}
