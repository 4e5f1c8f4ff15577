package models

// ColumnKind is the coarse data kind used to pick imputation strategies.
type ColumnKind int

const (
	KindNumeric ColumnKind = iota
	KindCategorical
)

func (k ColumnKind) String() string {
	if k == KindCategorical {
		return "categorical"
	}
	return "numeric"
}

// ColumnProfile describes the missingness of one column for a single run.
type ColumnProfile struct {
	Name           string
	Kind           ColumnKind
	MissingCount   int
	MissingPercent float64 // 0–100
	Cardinality    int     // distinct non-null values
	Recommendation string
}

// ColumnImputation records what the engine did to one column.
type ColumnImputation struct {
	Column        string
	Strategy      string
	MissingBefore int
	MissingAfter  int
}

// ImputationReport accumulates per-column statistics during one engine run.
// It is owned by the caller; the engine never keeps process-wide state.
type ImputationReport struct {
	Profiles []ColumnProfile
	Columns  []ColumnImputation
}

// Add appends one column's imputation record.
func (r *ImputationReport) Add(c ColumnImputation) {
	r.Columns = append(r.Columns, c)
}

// ImputationSummary aggregates an ImputationReport.
type ImputationSummary struct {
	ColumnsImputed int
	StrategiesUsed map[string]int
	MissingBefore  int
	MissingAfter   int
	SuccessRate    float64 // percent of missing values filled
}

// Summary rolls the per-column records up into totals.
func (r *ImputationReport) Summary() ImputationSummary {
	s := ImputationSummary{StrategiesUsed: make(map[string]int)}
	for _, c := range r.Columns {
		s.ColumnsImputed++
		s.StrategiesUsed[c.Strategy]++
		s.MissingBefore += c.MissingBefore
		s.MissingAfter += c.MissingAfter
	}
	if s.MissingBefore > 0 {
		s.SuccessRate = float64(s.MissingBefore-s.MissingAfter) / float64(s.MissingBefore) * 100
	} else {
		s.SuccessRate = 100
	}
	return s
}

// CleaningReport summarises one full pipeline run.
type CleaningReport struct {
	InitialRows      int
	InvalidPriceRows int // dropped: price and unit both absent
	FilteredRows     int // dropped by the range filter
	UnusableRows     int // dropped by the final essential-data check
	FinalRows        int
	FallbackUsed     bool // conservative drop after an engine failure
	Imputation       *ImputationReport
}
