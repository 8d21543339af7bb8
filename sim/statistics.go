package sim

import (
	"math"
)

// Harm thresholds for tail counts.
const (
	HarmThresholdHigh   = 1000.0
	HarmThresholdSevere = 5000.0
)

// PercentileMarks are the fixed percentile marks reported in Statistics.
var PercentileMarks = []float64{10, 25, 75, 90, 95, 99}

// Statistics summarizes the total_harm column of one ResultTable.
//
// StdDev is the sample standard deviation (N-1 denominator). Threshold
// counts are primary; the matching Pct fields are derived as count / n.
type Statistics struct {
	Iterations int `json:"iterations"`

	Mean   float64 `json:"mean_harm"`
	Median float64 `json:"median_harm"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min_harm"`
	Max    float64 `json:"max_harm"`

	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`

	ZeroHarmCount   int `json:"customers_zero_harm"`
	OverHighCount   int `json:"customers_harm_over_1000"`
	OverSevereCount int `json:"customers_harm_over_5000"`

	ZeroHarmPct   float64 `json:"pct_zero_harm"`
	OverHighPct   float64 `json:"pct_harm_over_1000"`
	OverSeverePct float64 `json:"pct_harm_over_5000"`

	AnnualTransactions float64 `json:"annual_transactions"`
	AnnualImpactMean   float64 `json:"annual_impact_mean"`
	AnnualImpactP95    float64 `json:"annual_impact_p95"`
}

// Metric names, shared by Entries, Value and the comparison grid.
const (
	MetricMeanHarm         = "Mean Harm"
	MetricMedianHarm       = "Median Harm"
	MetricStdDev           = "Std Dev"
	MetricMinHarm          = "Min Harm"
	MetricMaxHarm          = "Max Harm"
	MetricP10              = "10th Percentile"
	MetricP25              = "25th Percentile"
	MetricP75              = "75th Percentile"
	MetricP90              = "90th Percentile"
	MetricP95              = "95th Percentile"
	MetricP99              = "99th Percentile"
	MetricZeroHarm         = "Customers with Zero Harm"
	MetricOverHigh         = "Customers with Harm > $1000"
	MetricOverSevere       = "Customers with Harm > $5000"
	MetricAnnualImpactMean = "Annual Industry Impact (Mean)"
	MetricAnnualImpactP95  = "Annual Industry Impact (95th %ile)"
)

// Entry is one named metric.
type Entry struct {
	Name  string
	Value float64
	Kind  EntryKind
}

// EntryKind tells formatters how to render a value.
type EntryKind int

const (
	KindCurrency EntryKind = iota
	KindCount
	KindAnnual
)

// Entries returns every metric in reporting order.
func (s *Statistics) Entries() []Entry {
	return []Entry{
		{MetricMeanHarm, s.Mean, KindCurrency},
		{MetricMedianHarm, s.Median, KindCurrency},
		{MetricStdDev, s.StdDev, KindCurrency},
		{MetricMinHarm, s.Min, KindCurrency},
		{MetricMaxHarm, s.Max, KindCurrency},
		{MetricP10, s.P10, KindCurrency},
		{MetricP25, s.P25, KindCurrency},
		{MetricP75, s.P75, KindCurrency},
		{MetricP90, s.P90, KindCurrency},
		{MetricP95, s.P95, KindCurrency},
		{MetricP99, s.P99, KindCurrency},
		{MetricZeroHarm, float64(s.ZeroHarmCount), KindCount},
		{MetricOverHigh, float64(s.OverHighCount), KindCount},
		{MetricOverSevere, float64(s.OverSevereCount), KindCount},
		{MetricAnnualImpactMean, s.AnnualImpactMean, KindAnnual},
		{MetricAnnualImpactP95, s.AnnualImpactP95, KindAnnual},
	}
}

// Value looks a metric up by name.
func (s *Statistics) Value(name string) (float64, bool) {
	for _, e := range s.Entries() {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

// MetricKind returns the kind of the named metric, KindCurrency if unknown.
func MetricKind(name string) EntryKind {
	var zero Statistics
	for _, e := range zero.Entries() {
		if e.Name == name {
			return e.Kind
		}
	}
	return KindCurrency
}

// Percentiles returns the values at PercentileMarks, in order.
func (s *Statistics) Percentiles() []float64 {
	return []float64{s.P10, s.P25, s.P75, s.P90, s.P95, s.P99}
}

// CalculateStatistics computes the Statistics of table and extrapolates
// mean and P95 harm to annualTransactions. Pure: no mutation, no randomness.
func CalculateStatistics(table *ResultTable, annualTransactions float64) (*Statistics, error) {
	if table.Len() == 0 {
		return nil, &EmptyTableError{Op: "calculate statistics"}
	}
	if math.IsNaN(annualTransactions) || math.IsInf(annualTransactions, 0) || annualTransactions <= 0 {
		return nil, invalidParam("annual_transactions", "must be a positive finite number, got %g", annualTransactions)
	}

	harm := table.TotalHarm()
	sorted := sortedCopy(harm)
	n := len(harm)

	s := &Statistics{
		Iterations: n,
		Mean:       CalculateMean(harm),
		Median:     CalculatePercentile(sorted, 50),
		StdDev:     CalculateSampleStdDev(harm),
		Min:        sorted[0],
		Max:        sorted[n-1],
		P10:        CalculatePercentile(sorted, 10),
		P25:        CalculatePercentile(sorted, 25),
		P75:        CalculatePercentile(sorted, 75),
		P90:        CalculatePercentile(sorted, 90),
		P95:        CalculatePercentile(sorted, 95),
		P99:        CalculatePercentile(sorted, 99),

		ZeroHarmCount:   countWhere(harm, func(v float64) bool { return v == 0 }),
		OverHighCount:   countWhere(harm, func(v float64) bool { return v > HarmThresholdHigh }),
		OverSevereCount: countWhere(harm, func(v float64) bool { return v > HarmThresholdSevere }),

		AnnualTransactions: annualTransactions,
	}
	s.ZeroHarmPct = float64(s.ZeroHarmCount) / float64(n)
	s.OverHighPct = float64(s.OverHighCount) / float64(n)
	s.OverSeverePct = float64(s.OverSevereCount) / float64(n)
	s.AnnualImpactMean = s.Mean * annualTransactions
	s.AnnualImpactP95 = s.P95 * annualTransactions

	return s, nil
}
