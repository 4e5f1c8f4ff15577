package services

import (
	"math"
	"strings"

	"immo-pipeline/models"
	"immo-pipeline/utils"
)

// Classifier selects the property-type classification policy. The two
// policies belong to the two pipeline variants and are never mixed.
type Classifier int

const (
	ClassifyByTitle Classifier = iota
	ClassifyBySurface
)

// titleKeywords is the ordered keyword list for the title policy; the
// first match wins.
var titleKeywords = []struct {
	keyword  string
	category string
}{
	{"appartement", "Appartement"},
	{"villa", "Villa"},
	{"maison", "Maison"},
	{"terrain", "Terrain"},
	{"local", "Local"},
	{"studio", "Studio"},
}

// FeatureBuilder computes the dependent fields once the base columns are
// fully populated: price per m² and the property-type classification.
type FeatureBuilder struct {
	logger     *utils.Logger
	classifier Classifier
}

// NewFeatureBuilder creates a FeatureBuilder using the given policy.
func NewFeatureBuilder(logger *utils.Logger, classifier Classifier) *FeatureBuilder {
	return &FeatureBuilder{logger: logger, classifier: classifier}
}

// Build fills PricePerSqm and PropertyType in place.
func (b *FeatureBuilder) Build(listings []*models.Listing) {
	for _, l := range listings {
		l.PricePerSqm = PricePerSquareMetre(l.Price, l.Surface)
		if b.classifier == ClassifyBySurface {
			l.PropertyType = PropertyTypeFromSurface(l.Surface)
		} else {
			l.PropertyType = PropertyTypeFromTitle(l.Title)
		}
	}
	b.logger.Info("[features] derived price/m² and property type for %d listings", len(listings))
}

// PricePerSquareMetre divides price by surface where the surface is
// present and positive; everything else, including infinities, is
// missing.
func PricePerSquareMetre(price, surface float64) float64 {
	if models.IsMissing(price) || models.IsMissing(surface) || surface <= 0 {
		return models.Missing()
	}
	v := price / surface
	if math.IsInf(v, 0) {
		return models.Missing()
	}
	return v
}

// PropertyTypeFromTitle classifies by the first matching keyword in the
// listing title; no match is the catch-all category.
func PropertyTypeFromTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Unknown"
	}
	lower := strings.ToLower(title)
	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.category
		}
	}
	return "Autre"
}

// PropertyTypeFromSurface classifies by surface bucket.
func PropertyTypeFromSurface(surface float64) string {
	switch {
	case models.IsMissing(surface):
		return "Unknown"
	case surface <= 50:
		return "Studio/Small Apartment"
	case surface <= 100:
		return "Medium Apartment"
	case surface <= 200:
		return "Large Apartment"
	default:
		return "House/Villa"
	}
}
