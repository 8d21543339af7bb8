// Package sim provides the Monte Carlo engine for estimating per-customer
// consumer harm from hidden fees, service failures and denied damage claims.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - sampler.go: RunSimulation draws one ResultTable from a ParameterSet
//   - statistics.go: CalculateStatistics reduces a table to named metrics
//   - scenario.go: RunScenarios runs a ScenarioSet and collects results
//
// # Architecture
//
// Data flows one way: ParameterSet → RunSimulation → ResultTable →
// CalculateStatistics → Statistics. Scenario runs wrap that pipeline once
// per named ParameterSet; Compare then measures each against the
// "Status Quo" baseline.
//
// Randomness is never global. Callers pass a *rand.Rand, or let
// RunScenarios derive one stream per scenario from a PartitionedRNG, so a
// run is reproducible from its seed regardless of scenario order or
// parallelism.
//
// Serialization of tables and statistics lives in sim/report.
package sim
