package services

import (
	"immo-pipeline/models"
	"immo-pipeline/utils"
)

// Analyzer profiles the missingness of every column in the fixed
// real-estate column set. Its recommendations are advisory input to the
// strategy selector, not binding.
type Analyzer struct {
	logger *utils.Logger
}

// NewAnalyzer creates an Analyzer with the given logger.
func NewAnalyzer(logger *utils.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze computes one ColumnProfile per column.
func (a *Analyzer) Analyze(listings []*models.Listing) []models.ColumnProfile {
	total := len(listings)
	profiles := make([]models.ColumnProfile, 0, 6)

	for _, col := range numericColumns() {
		missing := 0
		distinct := make(map[float64]struct{})
		for _, l := range listings {
			v := col.get(l)
			if models.IsMissing(v) {
				missing++
				continue
			}
			distinct[v] = struct{}{}
		}
		profiles = append(profiles, a.profile(col.name, models.KindNumeric, missing, len(distinct), total))
	}

	for _, col := range categoricalColumns() {
		missing := 0
		distinct := make(map[string]struct{})
		for _, l := range listings {
			v := col.get(l)
			if col.missing(v) {
				missing++
				continue
			}
			distinct[v] = struct{}{}
		}
		profiles = append(profiles, a.profile(col.name, models.KindCategorical, missing, len(distinct), total))
	}

	for _, p := range profiles {
		if p.MissingCount > 0 {
			a.logger.Info("[analyze] %s: %d missing (%.1f%%), recommendation: %s",
				p.Name, p.MissingCount, p.MissingPercent, p.Recommendation)
		}
	}
	return profiles
}

func (a *Analyzer) profile(name string, kind models.ColumnKind, missing, cardinality, total int) models.ColumnProfile {
	pct := 0.0
	if total > 0 {
		pct = float64(missing) / float64(total) * 100
	}
	return models.ColumnProfile{
		Name:           name,
		Kind:           kind,
		MissingCount:   missing,
		MissingPercent: pct,
		Cardinality:    cardinality,
		Recommendation: Recommend(pct),
	}
}

// Recommend buckets a missing percentage into a qualitative
// recommendation string.
func Recommend(missingPercent float64) string {
	switch {
	case missingPercent == 0:
		return "none"
	case missingPercent < 5:
		return "simple"
	case missingPercent < 20:
		return "neighbor-based"
	case missingPercent < 50:
		return "advanced-with-caution"
	default:
		return "drop-or-advanced"
	}
}
