package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ReformsKeepSharedAssumptions(t *testing.T) {
	sq := StatusQuo().Params
	for _, sc := range []Scenario{ModerateReform(), StrongReform()} {
		assert.Equal(t, sq.BaseServiceCost, sc.Params.BaseServiceCost, sc.Name)
		assert.Equal(t, sq.AverageDamageValue, sc.Params.AverageDamageValue, sc.Name)
		assert.NotEqual(t, sq.HiddenFees, sc.Params.HiddenFees, sc.Name)
		assert.NotEqual(t, sq.ServiceFailureProb, sc.Params.ServiceFailureProb, sc.Name)
		assert.NotEqual(t, sq.ClaimDenialProb, sc.Params.ClaimDenialProb, sc.Name)
		require.NoError(t, sc.Params.Validate(), sc.Name)
	}
	assert.Equal(t, sq.DamageOccurrenceRate, ModerateReform().Params.DamageOccurrenceRate)
	assert.NotEqual(t, sq.DamageOccurrenceRate, StrongReform().Params.DamageOccurrenceRate)
}

func TestNewScenarioSet_Validation(t *testing.T) {
	t.Run("missing baseline", func(t *testing.T) {
		_, err := NewScenarioSet([]Scenario{ModerateReform()}, true)
		require.ErrorIs(t, err, ErrMissingBaseline)
		var mbe *MissingBaselineError
		require.True(t, errors.As(err, &mbe))
		assert.Equal(t, []string{ScenarioModerateReform}, mbe.Available)
	})
	t.Run("baseline optional", func(t *testing.T) {
		s, err := NewScenarioSet([]Scenario{ModerateReform()}, false)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
	})
	t.Run("duplicate name", func(t *testing.T) {
		_, err := NewScenarioSet([]Scenario{StatusQuo(), StatusQuo()}, true)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
	t.Run("empty name", func(t *testing.T) {
		_, err := NewScenarioSet([]Scenario{{Params: DefaultParameterSet()}}, false)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
	t.Run("empty set", func(t *testing.T) {
		_, err := NewScenarioSet(nil, false)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestRunScenarios_PreservesOrder(t *testing.T) {
	set, err := NewScenarioSet([]Scenario{StrongReform(), StatusQuo(), ModerateReform()}, true)
	require.NoError(t, err)

	coll := RunScenarios(context.Background(), set, 500, DefaultRunOptions())
	require.NoError(t, coll.Err())
	assert.Equal(t, []string{ScenarioStrongReform, BaselineScenario, ScenarioModerateReform}, coll.Names())
	for _, r := range coll.Results() {
		assert.True(t, r.OK(), r.Name)
		assert.Equal(t, 500, r.Table.Len())
		assert.Equal(t, 500, r.Stats.Iterations)
	}
}

func TestRunScenarios_FailureIsolated(t *testing.T) {
	// GIVEN one scenario with malformed bounds between two good ones
	bad := Scenario{Name: "Broken", Params: DefaultParameterSet()}
	bad.Params.HiddenFees = Tri(100, 50, 10)
	set, err := NewScenarioSet([]Scenario{StatusQuo(), bad, ModerateReform()}, true)
	require.NoError(t, err)

	// WHEN the set runs
	coll := RunScenarios(context.Background(), set, 200, DefaultRunOptions())

	// THEN only the bad scenario fails
	broken, ok := coll.Get("Broken")
	require.True(t, ok)
	assert.False(t, broken.OK())
	assert.ErrorIs(t, broken.Err, ErrInvalidParameter)
	assert.Nil(t, broken.Table)

	for _, name := range []string{BaselineScenario, ScenarioModerateReform} {
		r, ok := coll.Get(name)
		require.True(t, ok)
		assert.True(t, r.OK(), name)
	}
	assert.ErrorIs(t, coll.Err(), ErrInvalidParameter)
}

func TestRunScenarios_InvalidIterations_FailEveryScenario(t *testing.T) {
	coll := RunScenarios(context.Background(), DefaultScenarioSet(), 0, DefaultRunOptions())
	for _, r := range coll.Results() {
		assert.ErrorIs(t, r.Err, ErrInvalidParameter, r.Name)
	}
}

func TestRunScenarios_ParallelMatchesSequential(t *testing.T) {
	seq := RunScenarios(context.Background(), DefaultScenarioSet(), 2000, DefaultRunOptions())

	opts := DefaultRunOptions()
	opts.Parallel = true
	opts.Workers = 2
	par := RunScenarios(context.Background(), DefaultScenarioSet(), 2000, opts)

	require.Equal(t, seq.Names(), par.Names())
	for _, name := range seq.Names() {
		a, _ := seq.Get(name)
		b, _ := par.Get(name)
		require.True(t, a.OK() && b.OK(), name)
		assert.Equal(t, a.Table.Records(), b.Table.Records(), name)
		assert.Equal(t, a.Stats, b.Stats, name)
	}
}

func TestRunScenarios_BaselineMatchesSingleSeededRun(t *testing.T) {
	coll := RunScenarios(context.Background(), DefaultScenarioSet(), 1000, DefaultRunOptions())
	base, ok := coll.Get(BaselineScenario)
	require.True(t, ok)

	single, err := RunSimulationSeeded(DefaultParameterSet(), 1000, DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, single.Records(), base.Table.Records())
}

func TestRunScenarios_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coll := RunScenarios(ctx, DefaultScenarioSet(), 100, DefaultRunOptions())
	for _, r := range coll.Results() {
		assert.ErrorIs(t, r.Err, context.Canceled, r.Name)
	}
}

func TestRunScenarios_ModerateReformLowersMeanHarm(t *testing.T) {
	// Statistical: with 50k customers the reform mean sits far below the
	// baseline mean (roughly 780 vs 1280).
	coll := RunScenarios(context.Background(), DefaultScenarioSet(), 50000, DefaultRunOptions())
	require.NoError(t, coll.Err())

	sq, _ := coll.Get(BaselineScenario)
	mod, _ := coll.Get(ScenarioModerateReform)
	strong, _ := coll.Get(ScenarioStrongReform)
	assert.Less(t, mod.Stats.Mean, sq.Stats.Mean)
	assert.Less(t, strong.Stats.Mean, mod.Stats.Mean)
}
