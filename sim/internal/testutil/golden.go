// Package testutil provides shared test infrastructure for the harm
// simulator: the expected-value dataset and a relative-tolerance assertion.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/expected_harm.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one scenario run whose sample statistics must land
// near closed-form expectations.
type GoldenTestCase struct {
	Scenario   string        `json:"scenario"`
	Iterations int           `json:"iterations"`
	Seed       int64         `json:"seed"`
	RelTol     float64       `json:"rel_tol"`
	Metrics    GoldenMetrics `json:"metrics"`
}

// GoldenMetrics are per-customer expectations derived from the triangular
// means; each harm source is a product of independent draws.
type GoldenMetrics struct {
	HiddenFeesMean         float64 `json:"hidden_fees_mean"`
	ServiceFailureHarmMean float64 `json:"service_failure_harm_mean"`
	DamageHarmMean         float64 `json:"damage_harm_mean"`
	TotalHarmMean          float64 `json:"total_harm_mean"`
}

// LoadGoldenDataset loads the dataset from the repo-root testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "expected_harm.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("golden dataset has no test cases")
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
