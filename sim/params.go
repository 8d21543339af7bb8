package sim

// Run-wide constants. ServiceFailurePenalty is the flat harm charged for
// every failed service.
const (
	ServiceFailurePenalty     = 1000.0
	DefaultIterations         = 10000
	DefaultAnnualTransactions = 1.73e6
	DefaultSeed               = 42
)

// ParameterSet holds the six triangular inputs of one scenario. It is
// plain configuration: build it once, validate it, hand it to the Sampler.
type ParameterSet struct {
	BaseServiceCost      TriangularSpec `yaml:"base_service_cost" json:"base_service_cost"`
	HiddenFees           TriangularSpec `yaml:"hidden_fees" json:"hidden_fees"`
	ServiceFailureProb   TriangularSpec `yaml:"service_failure_prob" json:"service_failure_prob"`
	ClaimDenialProb      TriangularSpec `yaml:"claim_denial_prob" json:"claim_denial_prob"`
	DamageOccurrenceRate TriangularSpec `yaml:"damage_occurrence_rate" json:"damage_occurrence_rate"`
	AverageDamageValue   TriangularSpec `yaml:"average_damage_value" json:"average_damage_value"`
}

// ParameterNames lists the parameter keys in canonical order.
var ParameterNames = []string{
	"base_service_cost",
	"hidden_fees",
	"service_failure_prob",
	"claim_denial_prob",
	"damage_occurrence_rate",
	"average_damage_value",
}

// Fields returns the specs keyed by canonical name, in ParameterNames order.
func (p ParameterSet) Fields() []NamedSpec {
	return []NamedSpec{
		{"base_service_cost", p.BaseServiceCost},
		{"hidden_fees", p.HiddenFees},
		{"service_failure_prob", p.ServiceFailureProb},
		{"claim_denial_prob", p.ClaimDenialProb},
		{"damage_occurrence_rate", p.DamageOccurrenceRate},
		{"average_damage_value", p.AverageDamageValue},
	}
}

// NamedSpec pairs a parameter key with its distribution.
type NamedSpec struct {
	Name string
	Spec TriangularSpec
}

// Validate checks every field. Probabilities must lie in [0,1]; hidden fees
// and damage values must be non-negative so total harm can never go below 0.
func (p ParameterSet) Validate() error {
	for _, f := range p.Fields() {
		if err := f.Spec.Validate(f.Name); err != nil {
			return err
		}
	}
	for _, f := range []NamedSpec{
		{"service_failure_prob", p.ServiceFailureProb},
		{"claim_denial_prob", p.ClaimDenialProb},
		{"damage_occurrence_rate", p.DamageOccurrenceRate},
	} {
		if f.Spec.Min < 0 || f.Spec.Max > 1 {
			return invalidParam(f.Name, "probability bounds must lie in [0, 1], got [%g, %g]", f.Spec.Min, f.Spec.Max)
		}
	}
	if p.HiddenFees.Min < 0 {
		return invalidParam("hidden_fees", "min must be non-negative, got %g", p.HiddenFees.Min)
	}
	if p.AverageDamageValue.Min < 0 {
		return invalidParam("average_damage_value", "min must be non-negative, got %g", p.AverageDamageValue.Min)
	}
	return nil
}

// DefaultParameterSet returns the Status Quo assumptions.
func DefaultParameterSet() ParameterSet {
	return ParameterSet{
		BaseServiceCost:      Tri(2500, 3200, 4000),
		HiddenFees:           Tri(0, 375, 1100),
		ServiceFailureProb:   Tri(0.15, 0.30, 0.45),
		ClaimDenialProb:      Tri(0.60, 0.85, 0.95),
		DamageOccurrenceRate: Tri(0.05, 0.12, 0.25),
		AverageDamageValue:   Tri(500, 2500, 10000),
	}
}
