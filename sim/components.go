package sim

// Harm component labels.
const (
	ComponentHiddenFees     = "Hidden Fees"
	ComponentServiceFailure = "Service Failure Harm"
	ComponentDamage         = "Damage Harm (Denied Claims)"
)

// ComponentStats breaks down one harm component across all customers.
type ComponentStats struct {
	Name              string  `json:"name"`
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	Max               float64 `json:"max"`
	ShareOfTotal      float64 `json:"share_of_total"`
	AffectedCustomers int     `json:"affected_customers"`
}

// CalculateComponents returns the hidden-fee, service-failure and damage
// breakdowns. ShareOfTotal is the component mean over the mean total harm,
// and is 0 when the total is 0.
func CalculateComponents(table *ResultTable) ([]ComponentStats, error) {
	if table.Len() == 0 {
		return nil, &EmptyTableError{Op: "calculate components"}
	}
	totalMean := CalculateMean(table.TotalHarm())

	columns := []struct {
		name string
		get  func(Record) float64
	}{
		{ComponentHiddenFees, func(r Record) float64 { return r.HiddenFees }},
		{ComponentServiceFailure, func(r Record) float64 { return r.ServiceFailureHarm }},
		{ComponentDamage, func(r Record) float64 { return r.DamageHarm }},
	}

	out := make([]ComponentStats, 0, len(columns))
	for _, c := range columns {
		values := table.Column(c.get)
		sorted := sortedCopy(values)
		cs := ComponentStats{
			Name:              c.name,
			Mean:              CalculateMean(values),
			Median:            CalculatePercentile(sorted, 50),
			Max:               sorted[len(sorted)-1],
			AffectedCustomers: countWhere(values, func(v float64) bool { return v > 0 }),
		}
		if totalMean > 0 {
			cs.ShareOfTotal = cs.Mean / totalMean
		}
		out = append(out, cs)
	}
	return out, nil
}

// CorrelationColumns are the columns covered by CorrelationMatrix, in order.
var CorrelationColumns = []string{"service_cost", "hidden_fees", "service_failure_harm", "damage_harm", "total_harm"}

// CorrelationMatrix returns pairwise Pearson correlations over
// CorrelationColumns. The diagonal is always 1.
func CorrelationMatrix(table *ResultTable) ([][]float64, error) {
	if table.Len() == 0 {
		return nil, &EmptyTableError{Op: "correlation matrix"}
	}
	cols := [][]float64{
		table.Column(func(r Record) float64 { return r.ServiceCost }),
		table.Column(func(r Record) float64 { return r.HiddenFees }),
		table.Column(func(r Record) float64 { return r.ServiceFailureHarm }),
		table.Column(func(r Record) float64 { return r.DamageHarm }),
		table.TotalHarm(),
	}
	m := make([][]float64, len(cols))
	for i := range cols {
		m[i] = make([]float64, len(cols))
		m[i][i] = 1
	}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			c := CalculateCorrelation(cols[i], cols[j])
			m[i][j], m[j][i] = c, c
		}
	}
	return m, nil
}

// PercentileRow is one line of the percentile breakdown.
type PercentileRow struct {
	Percentile float64 `json:"percentile"`
	Harm       float64 `json:"harm"`
	AtOrBelow  int     `json:"customers_at_or_below"`
}

// PercentileTableMarks are the marks used by PercentileTable.
var PercentileTableMarks = []float64{10, 25, 50, 75, 90, 95, 99}

// PercentileTable returns harm at each of PercentileTableMarks and how many
// customers sit at or below that value.
func PercentileTable(table *ResultTable) ([]PercentileRow, error) {
	if table.Len() == 0 {
		return nil, &EmptyTableError{Op: "percentile table"}
	}
	harm := table.TotalHarm()
	sorted := sortedCopy(harm)
	rows := make([]PercentileRow, 0, len(PercentileTableMarks))
	for _, p := range PercentileTableMarks {
		v := CalculatePercentile(sorted, p)
		rows = append(rows, PercentileRow{
			Percentile: p,
			Harm:       v,
			AtOrBelow:  countWhere(harm, func(h float64) bool { return h <= v }),
		})
	}
	return rows, nil
}
