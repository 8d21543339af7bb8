package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harm-sim/harm-sim/sim"
	"github.com/harm-sim/harm-sim/sim/report"
)

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := executeRoot(root)
	return buf.String(), err
}

func TestRunCmd_PrintsStatistics(t *testing.T) {
	out, err := execute(t, "run", "--iterations", "500")
	require.NoError(t, err)

	assert.Contains(t, out, sim.BaselineScenario)
	assert.Contains(t, out, "Mean Harm: $")
	assert.Contains(t, out, "Annual Industry Impact (Mean): $")
	assert.Contains(t, out, "Harm Components:")
	assert.Contains(t, out, "Percentiles:")
}

func TestRunCmd_SameSeedSameOutput(t *testing.T) {
	a, err := execute(t, "run", "--iterations", "300", "--seed", "7", "--scenario", sim.ScenarioStrongReform)
	require.NoError(t, err)
	b, err := execute(t, "run", "--iterations", "300", "--seed", "7", "--scenario", sim.ScenarioStrongReform)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunCmd_UnknownScenario(t *testing.T) {
	_, err := execute(t, "run", "--scenario", "Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario")
	assert.Contains(t, err.Error(), sim.ScenarioModerateReform)
}

func TestRunCmd_InvalidSettings(t *testing.T) {
	_, err := execute(t, "run", "--iterations", "0")
	assert.Error(t, err)
	_, err = execute(t, "run", "--annual-transactions", "-5")
	assert.Error(t, err)
	_, err = execute(t, "run", "--log", "loud")
	assert.Error(t, err)
}

func TestRunCmd_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "--iterations", "200", "--output-dir", dir)
	require.NoError(t, err)

	for _, name := range []string{report.RawDataFile, report.SummaryFile, report.MetadataFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestScenariosCmd_PrintsComparison(t *testing.T) {
	out, err := execute(t, "scenarios", "--iterations", "1000", "--parallel", "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Scenario Comparison (baseline: Status Quo)")
	assert.Contains(t, out, sim.ScenarioModerateReform)
	assert.Contains(t, out, sim.ScenarioStrongReform)
	assert.Contains(t, out, "Cost-Benefit:")
}

func TestScenariosCmd_WritesPerScenarioData(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "scenarios", "--iterations", "200", "--output-dir", dir)
	require.NoError(t, err)

	for _, name := range []string{
		"status_quo_raw_data.csv", "moderate_reform_raw_data.csv", "strong_reform_raw_data.csv",
		report.SummaryFile, report.MetadataFile,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestScenariosCmd_CatalogWithoutBaseline(t *testing.T) {
	set, err := sim.NewScenarioSet([]sim.Scenario{sim.ModerateReform()}, false)
	require.NoError(t, err)
	path := writeCatalog(t, sim.NewScenarioConfig(set, nil))

	_, err = execute(t, "scenarios", "--scenarios", path, "--iterations", "100")
	assert.ErrorIs(t, err, sim.ErrMissingBaseline)
}

func TestScenariosCmd_FailingScenarioReported(t *testing.T) {
	bad := sim.Scenario{Name: "Broken", Params: sim.DefaultParameterSet()}
	bad.Params.HiddenFees = sim.Tri(10, 5, 1)
	set, err := sim.NewScenarioSet([]sim.Scenario{sim.StatusQuo(), bad}, true)
	require.NoError(t, err)
	path := writeCatalog(t, sim.NewScenarioConfig(set, nil))

	out, err := execute(t, "scenarios", "--scenarios", path, "--iterations", "100")
	require.ErrorIs(t, err, sim.ErrInvalidParameter)
	assert.Contains(t, out, "Broken: FAILED")
	assert.Contains(t, out, "Broken: skipped")
}

func TestScenariosCmd_CollidingFileNamesKeepEveryTable(t *testing.T) {
	// GIVEN two scenarios whose names map to the same file slug
	a := sim.Scenario{Name: "Fee Cap", Params: sim.DefaultParameterSet()}
	b := sim.Scenario{Name: "fee-cap", Params: sim.DefaultParameterSet()}
	set, err := sim.NewScenarioSet([]sim.Scenario{sim.StatusQuo(), a, b}, true)
	require.NoError(t, err)
	path := writeCatalog(t, sim.NewScenarioConfig(set, nil))
	dir := t.TempDir()

	// WHEN the catalog runs with outputs
	_, err = execute(t, "scenarios", "--scenarios", path, "--iterations", "50", "--output-dir", dir)
	require.NoError(t, err)

	// THEN each table gets its own file and the metadata lists each once
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	for _, name := range []string{"fee_cap_raw_data.csv", "fee_cap_2_raw_data.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, report.MetadataFile))
	require.NoError(t, err)
	var meta struct {
		Files []string `json:"files_generated"`
	}
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.ElementsMatch(t, []string{
		"status_quo_raw_data.csv", "fee_cap_raw_data.csv", "fee_cap_2_raw_data.csv",
		report.SummaryFile, report.MetadataFile,
	}, meta.Files)
}

func TestUniqueRawDataFile(t *testing.T) {
	used := make(map[string]bool)
	assert.Equal(t, "fee_cap_raw_data.csv", uniqueRawDataFile("Fee Cap", used))
	assert.Equal(t, "fee_cap_2_raw_data.csv", uniqueRawDataFile("fee-cap", used))
	assert.Equal(t, "fee_cap_3_raw_data.csv", uniqueRawDataFile("FEE CAP", used))
}

func TestRootCmd_LogLevelFromEnvironment(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })
	t.Setenv("HARMSIM_LOG", "debug")

	_, err := execute(t, "run", "--iterations", "10")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestRootCmd_LogFileFromEnvFile(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })

	// GIVEN an env file naming a log file and level
	dir := t.TempDir()
	logFile := filepath.Join(dir, "harm-sim.log")
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("HARMSIM_LOG=info\nHARMSIM_LOG_FILE="+logFile+"\n"), 0o644))
	t.Cleanup(func() {
		_ = os.Unsetenv("HARMSIM_LOG")
		_ = os.Unsetenv("HARMSIM_LOG_FILE")
	})

	// WHEN a command runs with that env file
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--iterations", "10", "--env-file", envFile, "--output-dir", filepath.Join(dir, "out")})
	require.NoError(t, executeRoot(root))

	// THEN logging honours both settings
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestExecuteRoot_ClosesLogFileWhenCommandFails(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })

	bad := sim.Scenario{Name: "Broken", Params: sim.DefaultParameterSet()}
	bad.Params.HiddenFees = sim.Tri(10, 5, 1)
	set, err := sim.NewScenarioSet([]sim.Scenario{sim.StatusQuo(), bad}, true)
	require.NoError(t, err)
	path := writeCatalog(t, sim.NewScenarioConfig(set, nil))
	logFile := filepath.Join(t.TempDir(), "harm-sim.log")

	_, err = execute(t, "scenarios", "--scenarios", path, "--iterations", "20", "--log-file", logFile)
	require.Error(t, err)

	assert.Nil(t, logSink)
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Broken")
}

func TestCatalogCmd_RoundTrip(t *testing.T) {
	out, err := execute(t, "catalog")
	require.NoError(t, err)

	cfg, err := sim.ParseScenarioConfig([]byte(out))
	require.NoError(t, err)
	set, err := cfg.ScenarioSet(true)
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultScenarioSet().Scenarios(), set.Scenarios())
	assert.Equal(t, sim.DefaultImplementationCosts(), cfg.ImplementationCosts())
}

func TestRawDataFileFor(t *testing.T) {
	assert.Equal(t, "moderate_reform_raw_data.csv", rawDataFileFor("Moderate Reform"))
	assert.Equal(t, "fee_cap_2025_raw_data.csv", rawDataFileFor("  Fee Cap/2025 "))
}

func writeCatalog(t *testing.T, cfg *sim.ScenarioConfig) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}
