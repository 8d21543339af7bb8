package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Built-in scenario names. BaselineScenario is the reference every other
// scenario is compared against.
const (
	BaselineScenario       = "Status Quo"
	ScenarioModerateReform = "Moderate Reform"
	ScenarioStrongReform   = "Strong Reform"
)

// Scenario is a named parameter set.
type Scenario struct {
	Name   string       `yaml:"name" json:"name"`
	Params ParameterSet `yaml:"params" json:"params"`
}

// StatusQuo returns the baseline scenario.
func StatusQuo() Scenario {
	return Scenario{Name: BaselineScenario, Params: DefaultParameterSet()}
}

// ModerateReform lowers hidden fees, service failures and claim denials.
// Service cost and damage assumptions stay at Status Quo values.
func ModerateReform() Scenario {
	p := DefaultParameterSet()
	p.HiddenFees = Tri(0, 150, 500)
	p.ServiceFailureProb = Tri(0.10, 0.20, 0.30)
	p.ClaimDenialProb = Tri(0.40, 0.60, 0.80)
	return Scenario{Name: ScenarioModerateReform, Params: p}
}

// StrongReform goes further than ModerateReform and also reduces how often
// damage occurs.
func StrongReform() Scenario {
	p := DefaultParameterSet()
	p.HiddenFees = Tri(0, 50, 200)
	p.ServiceFailureProb = Tri(0.05, 0.10, 0.15)
	p.ClaimDenialProb = Tri(0.20, 0.35, 0.50)
	p.DamageOccurrenceRate = Tri(0.03, 0.08, 0.15)
	return Scenario{Name: ScenarioStrongReform, Params: p}
}

// DefaultImplementationCosts are the assumed annual costs of each reform.
func DefaultImplementationCosts() map[string]float64 {
	return map[string]float64{
		BaselineScenario:       0,
		ScenarioModerateReform: 191_000_000,
		ScenarioStrongReform:   297_000_000,
	}
}

// ScenarioSet is an ordered collection of uniquely named scenarios.
type ScenarioSet struct {
	scenarios []Scenario
	index     map[string]int
}

// NewScenarioSet validates names and, when requireBaseline is set, the
// presence of BaselineScenario. Parameter values are not validated here:
// a bad scenario fails on its own when run.
func NewScenarioSet(scenarios []Scenario, requireBaseline bool) (*ScenarioSet, error) {
	if len(scenarios) == 0 {
		return nil, invalidParam("scenarios", "at least one scenario is required")
	}
	s := &ScenarioSet{
		scenarios: make([]Scenario, 0, len(scenarios)),
		index:     make(map[string]int, len(scenarios)),
	}
	for i, sc := range scenarios {
		if sc.Name == "" {
			return nil, invalidParam(fmt.Sprintf("scenarios[%d].name", i), "must not be empty")
		}
		if _, dup := s.index[sc.Name]; dup {
			return nil, invalidParam(fmt.Sprintf("scenarios[%d].name", i), "duplicate scenario %q", sc.Name)
		}
		s.index[sc.Name] = len(s.scenarios)
		s.scenarios = append(s.scenarios, sc)
	}
	if requireBaseline {
		if _, ok := s.index[BaselineScenario]; !ok {
			return nil, &MissingBaselineError{Baseline: BaselineScenario, Available: s.Names()}
		}
	}
	return s, nil
}

// DefaultScenarioSet returns Status Quo, Moderate Reform and Strong Reform.
func DefaultScenarioSet() *ScenarioSet {
	s, err := NewScenarioSet([]Scenario{StatusQuo(), ModerateReform(), StrongReform()}, true)
	if err != nil {
		panic(err)
	}
	return s
}

// Scenarios returns a copy of the scenarios in order.
func (s *ScenarioSet) Scenarios() []Scenario {
	cp := make([]Scenario, len(s.scenarios))
	copy(cp, s.scenarios)
	return cp
}

// Names returns scenario names in order.
func (s *ScenarioSet) Names() []string {
	names := make([]string, len(s.scenarios))
	for i, sc := range s.scenarios {
		names[i] = sc.Name
	}
	return names
}

// Get looks a scenario up by name.
func (s *ScenarioSet) Get(name string) (Scenario, bool) {
	i, ok := s.index[name]
	if !ok {
		return Scenario{}, false
	}
	return s.scenarios[i], true
}

// Len returns the number of scenarios.
func (s *ScenarioSet) Len() int { return len(s.scenarios) }

// ScenarioResult is the outcome of one scenario run. Exactly one of
// (Table, Stats) and Err is set.
type ScenarioResult struct {
	Name     string
	Params   ParameterSet
	Table    *ResultTable
	Stats    *Statistics
	Err      error
	Duration time.Duration
}

// OK reports whether the scenario produced results.
func (r *ScenarioResult) OK() bool { return r.Err == nil && r.Stats != nil }

// ScenarioCollection holds results in the order the scenarios were given.
type ScenarioCollection struct {
	Seed               int64
	Iterations         int
	AnnualTransactions float64
	results            []*ScenarioResult
}

// Results returns every result in order.
func (c *ScenarioCollection) Results() []*ScenarioResult {
	cp := make([]*ScenarioResult, len(c.results))
	copy(cp, c.results)
	return cp
}

// Names returns scenario names in order.
func (c *ScenarioCollection) Names() []string {
	names := make([]string, len(c.results))
	for i, r := range c.results {
		names[i] = r.Name
	}
	return names
}

// Get looks a result up by scenario name.
func (c *ScenarioCollection) Get(name string) (*ScenarioResult, bool) {
	for _, r := range c.results {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Err joins the errors of every failed scenario, nil if all succeeded.
func (c *ScenarioCollection) Err() error {
	var errs []error
	for _, r := range c.results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("scenario %q: %w", r.Name, r.Err))
		}
	}
	return errors.Join(errs...)
}

// RunOptions configures RunScenarios.
type RunOptions struct {
	Seed               int64
	AnnualTransactions float64
	// Parallel runs scenarios concurrently. Each scenario owns its own
	// stream, so the results match a sequential run exactly.
	Parallel bool
	// Workers caps concurrent scenarios when Parallel is set; 0 means no cap.
	Workers int
}

// DefaultRunOptions returns seed 42 and the default annual volume.
func DefaultRunOptions() RunOptions {
	return RunOptions{Seed: DefaultSeed, AnnualTransactions: DefaultAnnualTransactions}
}

// RunScenarios runs every scenario in set with n customers each. A failing
// scenario records its error and never stops the others; inspect
// ScenarioCollection.Err or each result. Scenarios not started before ctx
// is cancelled carry the context error.
func RunScenarios(ctx context.Context, set *ScenarioSet, n int, opts RunOptions) *ScenarioCollection {
	scenarios := set.Scenarios()
	coll := &ScenarioCollection{
		Seed:               opts.Seed,
		Iterations:         n,
		AnnualTransactions: opts.AnnualTransactions,
		results:            make([]*ScenarioResult, len(scenarios)),
	}

	// Derive every stream before any worker starts; PartitionedRNG is not
	// safe for concurrent use.
	prng := NewPartitionedRNG(NewSimulationKey(opts.Seed))
	streams := make([]*rand.Rand, len(scenarios))
	for i, sc := range scenarios {
		coll.results[i] = &ScenarioResult{Name: sc.Name, Params: sc.Params}
		streams[i] = prng.ForScenario(sc.Name)
	}

	run := func(i int) {
		res := coll.results[i]
		if err := ctx.Err(); err != nil {
			res.Err = err
			return
		}
		runOne(res, n, opts.AnnualTransactions, streams[i])
	}

	if !opts.Parallel {
		for i := range scenarios {
			run(i)
		}
		return coll
	}

	var g errgroup.Group
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i := range scenarios {
		g.Go(func() error {
			run(i)
			return nil
		})
	}
	_ = g.Wait()
	return coll
}

func runOne(res *ScenarioResult, n int, annualTransactions float64, rng *rand.Rand) {
	start := time.Now()
	logrus.Infof("running scenario %q with %d iterations", res.Name, n)

	table, err := RunSimulation(res.Params, n, rng)
	if err != nil {
		res.Err = fmt.Errorf("sampling: %w", err)
		logrus.Warnf("scenario %q failed: %v", res.Name, res.Err)
		return
	}
	stats, err := CalculateStatistics(table, annualTransactions)
	if err != nil {
		res.Err = fmt.Errorf("aggregating: %w", err)
		logrus.Warnf("scenario %q failed: %v", res.Name, res.Err)
		return
	}
	res.Table, res.Stats = table, stats
	res.Duration = time.Since(start)
	logrus.Infof("scenario %q done: mean harm %.2f, p95 %.2f (%v)", res.Name, stats.Mean, stats.P95, res.Duration)
}
