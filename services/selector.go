package services

import (
	"math"

	"immo-pipeline/models"
)

// Strategy identifies a concrete imputation algorithm.
type Strategy int

const (
	StrategyConstant Strategy = iota
	StrategyMean
	StrategyMedian
	StrategyMode
	StrategyGroupMedian
	StrategyKNN
	StrategyIterative
)

func (s Strategy) String() string {
	switch s {
	case StrategyConstant:
		return "constant"
	case StrategyMean:
		return "mean"
	case StrategyMedian:
		return "median"
	case StrategyMode:
		return "mode"
	case StrategyGroupMedian:
		return "group-median"
	case StrategyKNN:
		return "knn"
	case StrategyIterative:
		return "iterative"
	default:
		return "unknown"
	}
}

// Multivariate reports whether the strategy draws on other columns.
func (s Strategy) Multivariate() bool {
	return s == StrategyKNN || s == StrategyIterative
}

// domainOverrides pins strategies for the four real-estate fields
// regardless of their missing percentage. Price correlates strongly with
// the other numeric fields, so the simple bucket is too naive for it.
var domainOverrides = map[string]Strategy{
	ColPrice:    StrategyKNN,
	ColLocation: StrategyMode,
	ColSurface:  StrategyIterative,
	ColRooms:    StrategyKNN,
}

// SelectStrategy maps a column's data kind, missing percentage and
// skewness to an imputation strategy. Pure decision table; domain
// overrides are applied by SelectForColumn.
func SelectStrategy(kind models.ColumnKind, missingPercent, skewness float64) Strategy {
	if kind == models.KindCategorical {
		if missingPercent < 10 {
			return StrategyMode
		}
		return StrategyKNN
	}

	switch {
	case missingPercent < 5:
		if math.Abs(skewness) > 1 {
			return StrategyMedian
		}
		return StrategyMean
	case missingPercent < 20:
		return StrategyKNN
	default:
		return StrategyIterative
	}
}

// SelectForColumn applies the domain override for the named column when
// one exists, falling back to the general decision table.
func SelectForColumn(name string, kind models.ColumnKind, missingPercent, skewness float64) Strategy {
	if s, ok := domainOverrides[name]; ok {
		return s
	}
	return SelectStrategy(kind, missingPercent, skewness)
}

// KNeighbors returns the neighbor count for KNN imputation given the
// number of complete rows: sqrt(n) clamped to [3, 5].
func KNeighbors(completeRows int) int {
	k := int(math.Sqrt(float64(completeRows)))
	if k < 3 {
		k = 3
	}
	if k > 5 {
		k = 5
	}
	return k
}
