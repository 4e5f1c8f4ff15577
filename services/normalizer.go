package services

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"immo-pipeline/models"
	"immo-pipeline/utils"
)

var (
	// listWrapRegexp strips scraper list artifacts like ['124 m²'].
	listWrapRegexp = regexp.MustCompile(`[\[\]'"]`)
	// surfaceRegexp captures a number followed by an area-unit token,
	// covering the unicode and ASCII spellings of the symbol.
	surfaceRegexp = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*m[²2]?`)
	// intRegexp captures the first integer token.
	intRegexp = regexp.MustCompile(`\d+`)
	// priceCharsRegexp removes everything but digits, separators and a
	// sign, so non-positive prices still fail the positivity check.
	priceCharsRegexp = regexp.MustCompile(`[^\d.,-]`)
	// decorRegexp matches the decorative symbols and emoji stripped from
	// free-text descriptions.
	decorRegexp = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F900}-\x{1F9FF}\x{2190}-\x{21FF}\x{2600}-\x{27BF}\x{FE0F}\x{20E3}\x{1F1E6}-\x{1F1FF}]+`)
	// spaceRegexp collapses runs of whitespace.
	spaceRegexp = regexp.MustCompile(`\s+`)
	// adminPrefixRegexp / adminSuffixRegexp strip administrative noise
	// around location names ("Wilaya de Alger", "Oran Province").
	adminPrefixRegexp = regexp.MustCompile(`(?i)^(wilaya\s+de\s+|province\s+de\s+)`)
	adminSuffixRegexp = regexp.MustCompile(`(?i)\s+(province|wilaya)$`)
)

// UnknownName is the sentinel for unresolved location/wilaya values.
const UnknownName = "Unknown"

// Normalizer converts RawListings into typed Listings: prices to base DA,
// surfaces and room counts to validated numbers, names and descriptions to
// clean text. Anything unparseable becomes missing, never an error.
type Normalizer struct {
	logger *utils.Logger
	bounds Bounds
	titler cases.Caser
}

// NewNormalizer creates a Normalizer validating against the given bounds.
func NewNormalizer(logger *utils.Logger, bounds Bounds) *Normalizer {
	return &Normalizer{
		logger: logger,
		bounds: bounds,
		titler: cases.Title(language.French),
	}
}

// Normalize converts raw rows into typed listings. Rows where both the
// price and its unit are absent carry no usable price signal and are
// dropped; the count of dropped rows is returned alongside.
func (n *Normalizer) Normalize(raw []*models.RawListing) ([]*models.Listing, int) {
	result := make([]*models.Listing, 0, len(raw))
	dropped := 0

	for _, r := range raw {
		if strings.TrimSpace(r.Price) == "" && strings.TrimSpace(r.PriceUnit) == "" {
			dropped++
			continue
		}

		unit := models.ParsePriceUnit(r.PriceUnit)
		listing := &models.Listing{
			Title:       normaliseText(r.Title),
			Transaction: models.ParseTransactionType(r.Transaction),
			Price:       n.NormalizePrice(r.Price, unit),
			PerArea:     unit.PerArea(),
			PricePerSqm: models.Missing(),
			Surface:     n.ParseSurface(r.Surface),
			Rooms:       n.ParseRooms(r.Rooms),
			Location:    n.CleanName(r.Location),
			Wilaya:      n.CleanName(r.Wilaya),
			Description: n.CleanDescription(r.Description),
			Category:    r.Category,
			Source:      r.Source,
			Date:        r.Date,
			Link:        r.Link,
			ImageURLs:   r.ImageURLs,
		}
		result = append(result, listing)
	}

	n.logger.Info("[normalize] %d → %d listings (dropped %d with no price signal)",
		len(raw), len(result), dropped)
	return result, dropped
}

// NormalizePrice parses a raw price string and converts it to base DA
// using the unit multiplier. Missing or non-positive prices yield NaN.
func (n *Normalizer) NormalizePrice(raw string, unit models.PriceUnit) float64 {
	value, ok := parsePriceValue(raw)
	if !ok || value <= 0 {
		return models.Missing()
	}
	return value * unit.Multiplier()
}

// parsePriceValue extracts a numeric value from a price string, handling
// currency symbols and both thousands-separator conventions.
func parsePriceValue(raw string) (float64, bool) {
	s := priceCharsRegexp.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return 0, false
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		// Comma is a thousands separator.
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ","):
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Locale decimal separator.
			s = parts[0] + "." + parts[1]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseSurface extracts a surface in m² from free-form text such as
// "['124 m²']". Values outside the plausible bound become missing.
func (n *Normalizer) ParseSurface(raw string) float64 {
	s := listWrapRegexp.ReplaceAllString(raw, "")
	match := surfaceRegexp.FindStringSubmatch(s)
	if match == nil {
		return models.Missing()
	}

	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return models.Missing()
	}
	if v < n.bounds.SurfaceMin || v > n.bounds.SurfaceMax {
		return models.Missing()
	}
	return v
}

// ParseRooms extracts the first integer token from strings such as
// "['3 pièces']". Counts outside the plausible bound become missing.
func (n *Normalizer) ParseRooms(raw string) float64 {
	s := listWrapRegexp.ReplaceAllString(raw, "")
	match := intRegexp.FindString(s)
	if match == "" {
		return models.Missing()
	}

	rooms, err := strconv.Atoi(match)
	if err != nil {
		return models.Missing()
	}
	v := float64(rooms)
	if v < n.bounds.RoomsMin || v > n.bounds.RoomsMax {
		return models.Missing()
	}
	return v
}

// CleanDescription strips decorative symbols and collapses whitespace.
// It never fails; null input yields the empty string.
func (n *Normalizer) CleanDescription(raw string) string {
	s := decorRegexp.ReplaceAllString(raw, " ")
	s = spaceRegexp.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanName standardizes a location or wilaya name: administrative
// prefixes removed, whitespace collapsed, Title case. Empty input yields
// the Unknown sentinel.
func (n *Normalizer) CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return UnknownName
	}
	s = adminPrefixRegexp.ReplaceAllString(s, "")
	s = adminSuffixRegexp.ReplaceAllString(s, "")
	s = spaceRegexp.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownName
	}
	return n.titler.String(strings.ToLower(s))
}

// normaliseText strips leading/trailing whitespace and collapses internal
// whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
