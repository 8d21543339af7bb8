package sim

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ScenarioConfig is the top-level scenario catalog file.
// Loaded from YAML via LoadScenarioConfig(path).
type ScenarioConfig struct {
	Version   string             `yaml:"version"`
	Scenarios []ScenarioEntry    `yaml:"scenarios"`
	Costs     map[string]float64 `yaml:"implementation_costs,omitempty"`
}

// ScenarioEntry defines one scenario. With Extends set, omitted parameters
// are taken from the named earlier scenario; without it all six are required.
type ScenarioEntry struct {
	Name    string          `yaml:"name"`
	Extends string          `yaml:"extends,omitempty"`
	Params  ParameterConfig `yaml:"params"`
}

// ParameterConfig mirrors ParameterSet with optional fields so that a
// missing key can be told apart from a zero value.
type ParameterConfig struct {
	BaseServiceCost      *TriangularConfig `yaml:"base_service_cost,omitempty"`
	HiddenFees           *TriangularConfig `yaml:"hidden_fees,omitempty"`
	ServiceFailureProb   *TriangularConfig `yaml:"service_failure_prob,omitempty"`
	ClaimDenialProb      *TriangularConfig `yaml:"claim_denial_prob,omitempty"`
	DamageOccurrenceRate *TriangularConfig `yaml:"damage_occurrence_rate,omitempty"`
	AverageDamageValue   *TriangularConfig `yaml:"average_damage_value,omitempty"`
}

// TriangularConfig is a TriangularSpec whose bounds must all be present.
type TriangularConfig struct {
	Min  *float64 `yaml:"min"`
	Mode *float64 `yaml:"mode"`
	Max  *float64 `yaml:"max"`
}

// LoadScenarioConfig reads and parses a YAML scenario catalog.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	cfg, err := ParseScenarioConfig(data)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("loaded %d scenarios from %s", len(cfg.Scenarios), path)
	return cfg, nil
}

// ParseScenarioConfig parses YAML bytes with strict field checking.
func ParseScenarioConfig(data []byte) (*ScenarioConfig, error) {
	var cfg ScenarioConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	return &cfg, nil
}

// ScenarioSet resolves every entry into a ParameterSet and builds a
// ScenarioSet. Missing fields are rejected here, before any run.
func (c *ScenarioConfig) ScenarioSet(requireBaseline bool) (*ScenarioSet, error) {
	if c.Version != "1" {
		return nil, fmt.Errorf("unsupported scenario config version %q; valid: 1", c.Version)
	}
	resolved := make(map[string]ParameterSet, len(c.Scenarios))
	scenarios := make([]Scenario, 0, len(c.Scenarios))
	for i, e := range c.Scenarios {
		prefix := fmt.Sprintf("scenarios[%d]", i)
		var base *ParameterSet
		if e.Extends != "" {
			p, ok := resolved[e.Extends]
			if !ok {
				return nil, invalidParam(prefix+".extends", "unknown or later scenario %q", e.Extends)
			}
			base = &p
		}
		params, err := e.Params.resolve(prefix+".params", base)
		if err != nil {
			return nil, err
		}
		resolved[e.Name] = params
		scenarios = append(scenarios, Scenario{Name: e.Name, Params: params})
	}
	return NewScenarioSet(scenarios, requireBaseline)
}

// ImplementationCosts returns the configured costs, falling back to
// DefaultImplementationCosts when the file has none.
func (c *ScenarioConfig) ImplementationCosts() map[string]float64 {
	if len(c.Costs) == 0 {
		return DefaultImplementationCosts()
	}
	return c.Costs
}

func (p ParameterConfig) resolve(prefix string, base *ParameterSet) (ParameterSet, error) {
	var out ParameterSet
	if base != nil {
		out = *base
	}
	fields := []struct {
		name string
		src  *TriangularConfig
		dst  *TriangularSpec
	}{
		{"base_service_cost", p.BaseServiceCost, &out.BaseServiceCost},
		{"hidden_fees", p.HiddenFees, &out.HiddenFees},
		{"service_failure_prob", p.ServiceFailureProb, &out.ServiceFailureProb},
		{"claim_denial_prob", p.ClaimDenialProb, &out.ClaimDenialProb},
		{"damage_occurrence_rate", p.DamageOccurrenceRate, &out.DamageOccurrenceRate},
		{"average_damage_value", p.AverageDamageValue, &out.AverageDamageValue},
	}
	for _, f := range fields {
		name := prefix + "." + f.name
		if f.src == nil {
			if base == nil {
				return ParameterSet{}, invalidParam(name, "required field is missing")
			}
			continue
		}
		if f.src.Min == nil || f.src.Mode == nil || f.src.Max == nil {
			return ParameterSet{}, invalidParam(name, "min, mode and max are all required")
		}
		*f.dst = Tri(*f.src.Min, *f.src.Mode, *f.src.Max)
	}
	return out, nil
}

// NewScenarioConfig renders a ScenarioSet back to its file form, every
// parameter spelled out.
func NewScenarioConfig(set *ScenarioSet, costs map[string]float64) *ScenarioConfig {
	cfg := &ScenarioConfig{Version: "1", Costs: costs}
	for _, sc := range set.Scenarios() {
		cfg.Scenarios = append(cfg.Scenarios, ScenarioEntry{
			Name:   sc.Name,
			Params: parameterConfigFrom(sc.Params),
		})
	}
	return cfg
}

// WriteYAML encodes the config.
func (c *ScenarioConfig) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding scenario config: %w", err)
	}
	return enc.Close()
}

func parameterConfigFrom(p ParameterSet) ParameterConfig {
	tc := func(t TriangularSpec) *TriangularConfig {
		lo, mode, hi := t.Min, t.Mode, t.Max
		return &TriangularConfig{Min: &lo, Mode: &mode, Max: &hi}
	}
	return ParameterConfig{
		BaseServiceCost:      tc(p.BaseServiceCost),
		HiddenFees:           tc(p.HiddenFees),
		ServiceFailureProb:   tc(p.ServiceFailureProb),
		ClaimDenialProb:      tc(p.ClaimDenialProb),
		DamageOccurrenceRate: tc(p.DamageOccurrenceRate),
		AverageDamageValue:   tc(p.AverageDamageValue),
	}
}
