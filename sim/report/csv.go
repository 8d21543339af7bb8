// Package report renders simulation results: the raw per-customer CSV,
// plain-text statistics and comparison tables, the run summary and the
// JSON metadata file.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/harm-sim/harm-sim/sim"
)

// ResultColumns is the header of the raw results CSV, in record field order.
var ResultColumns = []string{
	"service_cost", "hidden_fees", "service_failure", "service_failure_harm",
	"damage_occurred", "damage_value", "claim_denied", "damage_harm", "total_harm",
}

// WriteResultCSV writes one row per simulated customer. Money values keep
// full float precision; flags are written as true/false.
func WriteResultCSV(w io.Writer, table *sim.ResultTable) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ResultColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := 0; i < table.Len(); i++ {
		r := table.Record(i)
		row := []string{
			formatMoney(r.ServiceCost),
			formatMoney(r.HiddenFees),
			strconv.FormatBool(r.ServiceFailure),
			formatMoney(r.ServiceFailureHarm),
			strconv.FormatBool(r.DamageOccurred),
			formatMoney(r.DamageValue),
			strconv.FormatBool(r.ClaimDenied),
			formatMoney(r.DamageHarm),
			formatMoney(r.TotalHarm),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", r.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
