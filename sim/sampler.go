package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Record is the simulated outcome for one customer. ServiceCost is
// informational and never enters the harm formula.
type Record struct {
	ID                 int     `json:"id"`
	ServiceCost        float64 `json:"service_cost"`
	HiddenFees         float64 `json:"hidden_fees"`
	ServiceFailure     bool    `json:"service_failure"`
	ServiceFailureHarm float64 `json:"service_failure_harm"`
	DamageOccurred     bool    `json:"damage_occurred"`
	DamageValue        float64 `json:"damage_value"`
	ClaimDenied        bool    `json:"claim_denied"`
	DamageHarm         float64 `json:"damage_harm"`
	TotalHarm          float64 `json:"total_harm"`
}

// ResultTable is the ordered, immutable sequence of records from one run.
// Index i is the i-th simulated customer.
type ResultTable struct {
	records []Record
}

// NewResultTable wraps a copy of records. Used by readers that rebuild a
// table from an export, and by tests.
func NewResultTable(records []Record) *ResultTable {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &ResultTable{records: cp}
}

// Len returns the number of records.
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Record returns the i-th record.
func (t *ResultTable) Record(i int) Record {
	return t.records[i]
}

// Records returns a copy of all records.
func (t *ResultTable) Records() []Record {
	cp := make([]Record, len(t.records))
	copy(cp, t.records)
	return cp
}

// Column extracts one float column as a fresh slice.
func (t *ResultTable) Column(get func(Record) float64) []float64 {
	out := make([]float64, len(t.records))
	for i, r := range t.records {
		out[i] = get(r)
	}
	return out
}

// TotalHarm returns the total_harm column.
func (t *ResultTable) TotalHarm() []float64 {
	return t.Column(func(r Record) float64 { return r.TotalHarm })
}

// RunSimulation draws n customers from params using rng.
//
// Draw order on rng is fixed: n samples for each of the six parameters in
// ParameterNames order, then n uniforms each for service failure, damage
// occurrence and claim denial. The same rng state therefore always yields
// the same table.
func RunSimulation(params ParameterSet, n int, rng *rand.Rand) (*ResultTable, error) {
	if n <= 0 {
		return nil, invalidParam("n", "sample count must be positive, got %d", n)
	}
	if rng == nil {
		return nil, invalidParam("rng", "random source must not be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	serviceCosts := params.BaseServiceCost.SampleN(rng, n)
	hiddenFees := params.HiddenFees.SampleN(rng, n)
	failureProbs := params.ServiceFailureProb.SampleN(rng, n)
	denialProbs := params.ClaimDenialProb.SampleN(rng, n)
	damageRates := params.DamageOccurrenceRate.SampleN(rng, n)
	damageValues := params.AverageDamageValue.SampleN(rng, n)

	failureDraws := uniformN(rng, n)
	damageDraws := uniformN(rng, n)
	denialDraws := uniformN(rng, n)

	records := make([]Record, n)
	for i := range records {
		failed := failureDraws[i] < failureProbs[i]
		damaged := damageDraws[i] < damageRates[i]
		denied := denialDraws[i] < denialProbs[i]

		failureHarm := 0.0
		if failed {
			failureHarm = ServiceFailurePenalty
		}
		damageHarm := 0.0
		if damaged && denied {
			damageHarm = damageValues[i]
		}

		records[i] = Record{
			ID:                 i,
			ServiceCost:        serviceCosts[i],
			HiddenFees:         hiddenFees[i],
			ServiceFailure:     failed,
			ServiceFailureHarm: failureHarm,
			DamageOccurred:     damaged,
			DamageValue:        damageValues[i],
			ClaimDenied:        denied,
			DamageHarm:         damageHarm,
			TotalHarm:          hiddenFees[i] + failureHarm + damageHarm,
		}
	}

	logrus.Debugf("sampled %d customers", n)
	return &ResultTable{records: records}, nil
}

// RunSimulationSeeded is RunSimulation on a fresh stream seeded with seed.
func RunSimulationSeeded(params ParameterSet, n int, seed int64) (*ResultTable, error) {
	return RunSimulation(params, n, newRandFromSeed(seed))
}
