package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// sortedCopy returns an ascending copy of data.
func sortedCopy(data []float64) []float64 {
	cp := make([]float64, len(data))
	copy(cp, data)
	sort.Float64s(cp)
	return cp
}

// CalculatePercentile returns the p-th percentile (p in [0,100]) of sorted
// data using linear interpolation between order statistics (type 7).
// data must be sorted ascending and non-empty.
func CalculatePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		return sorted[n-1]
	}
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	lowerVal, upperVal := sorted[lowerIdx], sorted[upperIdx]
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}

// CalculateMean returns the arithmetic mean, 0 for empty input.
func CalculateMean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// CalculateSampleStdDev returns the Bessel-corrected (N-1) standard
// deviation. A single observation has no spread to estimate and yields 0.
func CalculateSampleStdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// CalculateCorrelation returns the Pearson correlation of a and b. A
// constant series has undefined correlation; it is reported as 0.
func CalculateCorrelation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}
	if CalculateSampleStdDev(a) == 0 || CalculateSampleStdDev(b) == 0 {
		return 0
	}
	return stat.Correlation(a, b, nil)
}

// countWhere counts values satisfying pred.
func countWhere(data []float64, pred func(float64) bool) int {
	c := 0
	for _, v := range data {
		if pred(v) {
			c++
		}
	}
	return c
}
