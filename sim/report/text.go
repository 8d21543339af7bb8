package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/harm-sim/harm-sim/sim"
)

// Currency renders v as dollars with thousands separators and two decimals.
func Currency(v float64) string {
	return dollars("#,###.##", math.Round(v*100)/100)
}

// WholeCurrency renders v as whole dollars, used for annual figures.
func WholeCurrency(v float64) string {
	return dollars("#,###.", math.Round(v))
}

// dollars puts the sign ahead of the dollar symbol: -$1,234.
func dollars(format string, v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat(format, -v)
	}
	return "$" + humanize.FormatFloat(format, v)
}

// Count renders a customer count with thousands separators.
func Count(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// FormatEntry renders one statistic according to its kind.
func FormatEntry(e sim.Entry) string {
	switch e.Kind {
	case sim.KindAnnual:
		return WholeCurrency(e.Value)
	case sim.KindCount:
		return Count(e.Value)
	default:
		return Currency(e.Value)
	}
}

// WriteStatisticsText writes the statistics of one scenario as
// "Name: value" lines under a titled header.
func WriteStatisticsText(w io.Writer, name string, stats *sim.Statistics) {
	fmt.Fprintf(w, "%s\n%s\n", name, strings.Repeat("-", len(name)))
	for _, e := range stats.Entries() {
		fmt.Fprintf(w, "%s: %s\n", e.Name, FormatEntry(e))
	}
}

// WriteComponentsText writes the harm breakdown table.
func WriteComponentsText(w io.Writer, comps []sim.ComponentStats) {
	fmt.Fprintln(w, "Harm Components:")
	for _, c := range comps {
		fmt.Fprintf(w, "  %-28s mean=%s  median=%s  max=%s  share=%.1f%%  affected=%s\n",
			c.Name, Currency(c.Mean), Currency(c.Median), Currency(c.Max),
			c.ShareOfTotal*100, humanize.Comma(int64(c.AffectedCustomers)))
	}
}

// WritePercentileText writes the percentile breakdown table.
func WritePercentileText(w io.Writer, rows []sim.PercentileRow, n int) {
	fmt.Fprintln(w, "Percentiles:")
	for _, r := range rows {
		pct := 0.0
		if n > 0 {
			pct = float64(r.AtOrBelow) / float64(n) * 100
		}
		fmt.Fprintf(w, "  P%-3.0f %14s  %s customers at or below (%.1f%%)\n",
			r.Percentile, Currency(r.Harm), humanize.Comma(int64(r.AtOrBelow)), pct)
	}
}

// WriteComparisonText writes the side-by-side metric grid followed by the
// cost-benefit lines. An asterisk marks values below the baseline.
func WriteComparisonText(w io.Writer, cmp *sim.Comparison) {
	fmt.Fprintf(w, "Scenario Comparison (baseline: %s)\n", cmp.Baseline)
	fmt.Fprintf(w, "%-36s", "Metric")
	for _, name := range cmp.Scenarios {
		fmt.Fprintf(w, " %20s", name)
	}
	fmt.Fprintln(w)

	for _, row := range cmp.Metrics {
		fmt.Fprintf(w, "%-36s", row.Metric)
		kind := sim.MetricKind(row.Metric)
		for i, v := range row.Values {
			cell := FormatEntry(sim.Entry{Value: v, Kind: kind})
			if row.Improved[i] {
				cell += "*"
			}
			fmt.Fprintf(w, " %20s", cell)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cost-Benefit:")
	for _, r := range cmp.Rows {
		if r.Scenario == cmp.Baseline {
			continue
		}
		fmt.Fprintf(w, "  %s: reduction %.1f%%, annual benefit %s, cost %s, net %s",
			r.Scenario, r.ReductionPct, WholeCurrency(r.AnnualBenefit),
			WholeCurrency(r.ImplementationCost), WholeCurrency(r.NetBenefit))
		if r.ImplementationCost > 0 {
			fmt.Fprintf(w, ", ROI %.0f%%", r.ROI*100)
		}
		fmt.Fprintln(w)
	}
	for _, name := range cmp.Skipped {
		fmt.Fprintf(w, "  %s: skipped (run failed)\n", name)
	}
}
