package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/harm-sim/harm-sim/sim"
)

// RunMetadata identifies one CLI run and the files it produced.
type RunMetadata struct {
	RunID              string    `json:"run_id"`
	CreatedAt          time.Time `json:"simulation_date"`
	Iterations         int       `json:"simulations"`
	Seed               int64     `json:"seed"`
	AnnualTransactions float64   `json:"annual_transactions"`
	Scenarios          []string  `json:"scenarios"`
	Files              []string  `json:"files_generated,omitempty"`
}

// NewRunMetadata stamps a fresh run id and the current time.
func NewRunMetadata(iterations int, seed int64, annualTransactions float64, scenarios []string) RunMetadata {
	return RunMetadata{
		RunID:              uuid.New().String(),
		CreatedAt:          time.Now().UTC(),
		Iterations:         iterations,
		Seed:               seed,
		AnnualTransactions: annualTransactions,
		Scenarios:          scenarios,
	}
}

// KeyFindings are the headline baseline numbers.
type KeyFindings struct {
	MeanHarm     float64 `json:"mean_harm"`
	MedianHarm   float64 `json:"median_harm"`
	P95          float64 `json:"95th_percentile"`
	AnnualImpact float64 `json:"annual_impact"`
}

// WriteMetadataJSON writes meta plus the key findings taken from stats.
func WriteMetadataJSON(w io.Writer, meta RunMetadata, stats *sim.Statistics) error {
	output := struct {
		RunMetadata
		KeyFindings KeyFindings `json:"key_findings"`
	}{
		RunMetadata: meta,
		KeyFindings: KeyFindings{
			MeanHarm:     stats.Mean,
			MedianHarm:   stats.Median,
			P95:          stats.P95,
			AnnualImpact: stats.AnnualImpactMean,
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	return nil
}
