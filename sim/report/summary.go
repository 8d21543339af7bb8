package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/harm-sim/harm-sim/sim"
)

// WriteSummary writes the plain-text run summary: run header, then one
// block per scenario. cmp may be nil, in which case reductions are omitted.
func WriteSummary(w io.Writer, meta RunMetadata, coll *sim.ScenarioCollection, cmp *sim.Comparison) {
	fmt.Fprintln(w, "CONSUMER HARM MONTE CARLO SIMULATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run ID: %s\n", meta.RunID)
	fmt.Fprintf(w, "Simulation Date: %s\n", meta.CreatedAt.Format("January 02, 2006 at 03:04 PM"))
	fmt.Fprintf(w, "Number of simulations: %s\n", humanize.Comma(int64(meta.Iterations)))
	fmt.Fprintf(w, "Seed: %d\n", meta.Seed)
	fmt.Fprintf(w, "Annual transactions: %s\n", Count(meta.AnnualTransactions))

	for _, r := range coll.Results() {
		fmt.Fprintf(w, "\n%s SCENARIO\n", strings.ToUpper(r.Name))
		fmt.Fprintln(w, strings.Repeat("-", 40))
		if !r.OK() {
			fmt.Fprintf(w, "FAILED: %v\n", r.Err)
			continue
		}
		s := r.Stats
		fmt.Fprintf(w, "Mean Harm: %s\n", Currency(s.Mean))
		fmt.Fprintf(w, "Median Harm: %s\n", Currency(s.Median))
		fmt.Fprintf(w, "95th Percentile: %s\n", Currency(s.P95))
		fmt.Fprintf(w, "99th Percentile: %s\n", Currency(s.P99))
		fmt.Fprintf(w, "Annual Industry Impact: %s\n", WholeCurrency(s.AnnualImpactMean))

		if cmp == nil || r.Name == cmp.Baseline {
			continue
		}
		if row, ok := cmp.Row(r.Name); ok {
			fmt.Fprintf(w, "Reduction from %s: %.1f%%\n", cmp.Baseline, row.ReductionPct)
		}
	}
}
