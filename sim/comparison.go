package sim

// ComparisonMetrics are the metrics shown side by side for every scenario.
var ComparisonMetrics = []string{
	MetricMeanHarm,
	MetricMedianHarm,
	MetricP90,
	MetricP95,
	MetricP99,
	MetricZeroHarm,
	MetricOverHigh,
	MetricOverSevere,
	MetricAnnualImpactMean,
}

// ScenarioComparison measures one scenario against the baseline.
type ScenarioComparison struct {
	Scenario           string  `json:"scenario"`
	MeanHarm           float64 `json:"mean_harm"`
	ReductionPct       float64 `json:"reduction_pct"`
	AnnualImpact       float64 `json:"annual_impact"`
	AnnualBenefit      float64 `json:"annual_consumer_benefit"`
	ImplementationCost float64 `json:"implementation_cost"`
	NetBenefit         float64 `json:"net_benefit"`
	ROI                float64 `json:"roi"`
}

// MetricRow holds one metric across scenarios. Improved[i] is true when
// scenario i is strictly below the baseline; it is always false for the
// baseline itself.
type MetricRow struct {
	Metric   string    `json:"metric"`
	Values   []float64 `json:"values"`
	Improved []bool    `json:"improved"`
}

// Comparison is the baseline-relative view of a ScenarioCollection.
type Comparison struct {
	Baseline  string               `json:"baseline"`
	Scenarios []string             `json:"scenarios"`
	Rows      []ScenarioComparison `json:"rows"`
	Metrics   []MetricRow          `json:"metrics"`
	// Skipped lists scenarios left out because their run failed.
	Skipped []string `json:"skipped,omitempty"`
}

// Row returns the comparison for scenario name.
func (c *Comparison) Row(name string) (ScenarioComparison, bool) {
	for _, r := range c.Rows {
		if r.Scenario == name {
			return r, true
		}
	}
	return ScenarioComparison{}, false
}

// Compare builds reductions, cost-benefit figures and the metric grid
// relative to baseline. costs maps scenario name to implementation cost;
// missing entries count as 0. It fails with MissingBaselineError when the
// baseline is absent or its run failed.
func Compare(coll *ScenarioCollection, baseline string, costs map[string]float64) (*Comparison, error) {
	base, ok := coll.Get(baseline)
	if !ok || !base.OK() {
		return nil, &MissingBaselineError{Baseline: baseline, Available: coll.Names()}
	}

	cmp := &Comparison{Baseline: baseline}
	var included []*ScenarioResult
	for _, r := range coll.Results() {
		if !r.OK() {
			cmp.Skipped = append(cmp.Skipped, r.Name)
			continue
		}
		included = append(included, r)
		cmp.Scenarios = append(cmp.Scenarios, r.Name)
	}

	baseMean := base.Stats.Mean
	baseImpact := base.Stats.AnnualImpactMean
	for _, r := range included {
		row := ScenarioComparison{
			Scenario:           r.Name,
			MeanHarm:           r.Stats.Mean,
			AnnualImpact:       r.Stats.AnnualImpactMean,
			ImplementationCost: costs[r.Name],
		}
		if r.Name != baseline {
			if baseMean != 0 {
				row.ReductionPct = (1 - r.Stats.Mean/baseMean) * 100
			}
			row.AnnualBenefit = baseImpact - r.Stats.AnnualImpactMean
		}
		row.NetBenefit = row.AnnualBenefit - row.ImplementationCost
		if row.ImplementationCost > 0 {
			row.ROI = row.AnnualBenefit/row.ImplementationCost - 1
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	for _, metric := range ComparisonMetrics {
		baseVal, _ := base.Stats.Value(metric)
		mr := MetricRow{Metric: metric}
		for _, r := range included {
			v, _ := r.Stats.Value(metric)
			mr.Values = append(mr.Values, v)
			mr.Improved = append(mr.Improved, r.Name != baseline && v < baseVal)
		}
		cmp.Metrics = append(cmp.Metrics, mr)
	}
	return cmp, nil
}
