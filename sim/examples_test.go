package sim_test

import (
	"context"
	"fmt"

	"github.com/harm-sim/harm-sim/sim"
)

func ExampleRunScenarios() {
	coll := sim.RunScenarios(context.Background(), sim.DefaultScenarioSet(), 10000, sim.DefaultRunOptions())
	cmp, err := sim.Compare(coll, sim.BaselineScenario, sim.DefaultImplementationCosts())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, row := range cmp.Rows {
		fmt.Printf("%s: mean harm %.2f, reduction %.1f%%\n", row.Scenario, row.MeanHarm, row.ReductionPct)
	}
}

func ExampleRunSimulationSeeded() {
	table, err := sim.RunSimulationSeeded(sim.DefaultParameterSet(), 1000, sim.DefaultSeed)
	if err != nil {
		fmt.Println(err)
		return
	}
	stats, err := sim.CalculateStatistics(table, sim.DefaultAnnualTransactions)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(stats.Iterations)
	// Output: 1000
}
