package services

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"immo-pipeline/models"
)

// observed returns the non-missing values of a column.
func observed(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !models.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// median returns the midpoint median of the observed values, NaN when
// there are none.
func median(values []float64) float64 {
	obs := observed(values)
	if len(obs) == 0 {
		return models.Missing()
	}
	sort.Float64s(obs)
	mid := len(obs) / 2
	if len(obs)%2 == 1 {
		return obs[mid]
	}
	return (obs[mid-1] + obs[mid]) / 2
}

// meanOf returns the mean of the observed values, NaN when there are none.
func meanOf(values []float64) float64 {
	obs := observed(values)
	if len(obs) == 0 {
		return models.Missing()
	}
	return stat.Mean(obs, nil)
}

// skewness returns the sample skewness of the observed values. Columns
// with fewer than three observations or zero variance report 0.
func skewness(values []float64) float64 {
	obs := observed(values)
	if len(obs) < 3 {
		return 0
	}
	s := stat.Skew(obs, nil)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return s
}

// modeOf returns the most frequent non-missing value, breaking ties by
// first occurrence. ok is false when every value is missing.
func modeOf(values []string, missing func(string) bool) (string, bool) {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, v := range values {
		if missing(v) {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount > 0
}
