package services

import (
	"strings"

	"immo-pipeline/models"
	"immo-pipeline/utils"
)

// Pipeline wires the cleaning stages in their fixed order: normalize,
// analyze, impute, derive, filter, validate. Each stage owns the table
// exclusively while it runs; a run either completes or fails outright.
type Pipeline struct {
	logger     *utils.Logger
	variant    Variant
	normalizer *Normalizer
	analyzer   *Analyzer
	imputer    *Imputer
	features   *FeatureBuilder
	filter     *RangeFilter
	splitter   *Splitter
}

// NewPipeline assembles a Pipeline for the given variant.
func NewPipeline(logger *utils.Logger, variant Variant) *Pipeline {
	return &Pipeline{
		logger:     logger,
		variant:    variant,
		normalizer: NewNormalizer(logger, variant.Bounds),
		analyzer:   NewAnalyzer(logger),
		imputer:    NewImputer(logger),
		features:   NewFeatureBuilder(logger, variant.Classifier),
		filter:     NewRangeFilter(logger, variant.Bounds),
		splitter:   NewSplitter(logger),
	}
}

// Run cleans the raw table in place and reports what happened. An
// imputation engine failure is not fatal: the pipeline falls back to
// dropping rows with missing critical fields and continues.
func (p *Pipeline) Run(raw []*models.RawListing) ([]*models.Listing, *models.CleaningReport) {
	report := &models.CleaningReport{InitialRows: len(raw)}

	listings, droppedInvalid := p.normalizer.Normalize(raw)
	report.InvalidPriceRows = droppedInvalid

	profiles := p.analyzer.Analyze(listings)

	impReport, err := p.imputer.ImputeAll(listings, profiles)
	if err != nil {
		p.logger.Error("[pipeline] imputation failed: %v; falling back to dropping incomplete rows", err)
		report.FallbackUsed = true
		listings = dropMissingCritical(listings)
	} else {
		report.Imputation = impReport
	}

	p.features.Build(listings)

	listings, filtered := p.filter.Apply(listings)
	report.FilteredRows = filtered

	listings, unusable := dropUnusable(listings)
	report.UnusableRows = unusable
	if unusable > 0 {
		p.logger.Info("[pipeline] removed %d completely unusable rows", unusable)
	}

	// Any price the engine could not resolve gets the global median so
	// the critical column is complete in the output.
	priceCol := numericColumns()[0]
	fillConstant(listings, priceCol, median(collectNumeric(listings, priceCol)))

	report.FinalRows = len(listings)
	return listings, report
}

// Split partitions the cleaned table by transaction category.
func (p *Pipeline) Split(listings []*models.Listing) (sales, rentals, other []*models.Listing) {
	return p.splitter.Split(listings)
}

// dropMissingCritical is the conservative fallback: keep only rows where
// every critical field (transaction, location, wilaya, price) is present.
func dropMissingCritical(listings []*models.Listing) []*models.Listing {
	kept := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if models.IsMissing(l.Price) ||
			l.Transaction == models.TransactionUnknown ||
			isUnknownName(l.Location) ||
			isUnknownName(l.Wilaya) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// dropUnusable removes rows carrying neither a price nor any resolved
// location information.
func dropUnusable(listings []*models.Listing) ([]*models.Listing, int) {
	kept := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if models.IsMissing(l.Price) && locationUnresolved(l.Location) && locationUnresolved(l.Wilaya) {
			continue
		}
		kept = append(kept, l)
	}
	return kept, len(listings) - len(kept)
}

// locationUnresolved treats both the bare sentinel and its suffixed form
// as unresolved for the usability check.
func locationUnresolved(name string) bool {
	return name == "" || name == UnknownName || strings.HasPrefix(name, UnknownName+"-")
}
