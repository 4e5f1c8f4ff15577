package services

// Bounds is the table of domain-plausible ranges used by the Normalizer
// and the range filter. Values outside a bound are treated as missing or
// dropped, never clamped.
type Bounds struct {
	PriceMin        float64
	PriceMax        float64
	PerAreaPriceMin float64
	PerAreaPriceMax float64
	SurfaceMin      float64
	SurfaceMax      float64
	RoomsMin        float64
	RoomsMax        float64
}

// Variant bundles the bounds table and the property-type classification
// policy. The two variants come from the two historical cleaning scripts;
// their thresholds intentionally differ, see TestVariantThresholdsDiverge.
type Variant struct {
	Name       string
	Bounds     Bounds
	Classifier Classifier
}

// VariantFull is the default configuration: title-keyword property types
// and the tighter surface bound.
func VariantFull() Variant {
	return Variant{
		Name: "full",
		Bounds: Bounds{
			PriceMin:        100_000,
			PriceMax:        1_000_000_000,
			PerAreaPriceMin: 5_000,
			PerAreaPriceMax: 2_000_000,
			SurfaceMin:      5,
			SurfaceMax:      5000,
			RoomsMin:        1,
			RoomsMax:        20,
		},
		Classifier: ClassifyByTitle,
	}
}

// VariantPlatform mirrors the platform cleaning configuration:
// surface-bucket property types and a wider surface ceiling.
func VariantPlatform() Variant {
	return Variant{
		Name: "platform",
		Bounds: Bounds{
			PriceMin:        100_000,
			PriceMax:        1_000_000_000,
			PerAreaPriceMin: 5_000,
			PerAreaPriceMax: 2_000_000,
			SurfaceMin:      5,
			SurfaceMax:      10_000,
			RoomsMin:        1,
			RoomsMax:        20,
		},
		Classifier: ClassifyBySurface,
	}
}

// VariantByName resolves a configured variant name, defaulting to full.
func VariantByName(name string) Variant {
	if name == "platform" {
		return VariantPlatform()
	}
	return VariantFull()
}
