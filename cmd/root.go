package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harm-sim/harm-sim/sim"
	"github.com/harm-sim/harm-sim/sim/report"
)

// logSink is the open log file of the running command, if any.
var logSink io.Closer

// NewRootCmd builds the harm-sim command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "harm-sim",
		Short:         "Monte Carlo simulator for consumer harm in moving services",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			closer, err := setupLogging(s.LogLevel, s.LogFile)
			if err != nil {
				return err
			}
			logSink = closer
			cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, s))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLogging()
		},
	}
	rootCmd.PersistentFlags().String("log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this rotating file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Load HARMSIM_* settings from this file if it exists")

	rootCmd.AddCommand(newRunCmd(), newScenariosCmd(), newCatalogCmd())
	return rootCmd
}

// Execute runs the CLI root command
func Execute() {
	if err := executeRoot(NewRootCmd()); err != nil {
		logrus.Fatalf("%v", err)
	}
}

// executeRoot runs root and closes the log sink on every path; cobra skips
// PersistentPostRunE when RunE fails.
func executeRoot(root *cobra.Command) error {
	err := root.Execute()
	if cerr := closeLogging(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// closeLogging releases the log file and points logrus back at stderr.
func closeLogging() error {
	if logSink == nil {
		return nil
	}
	err := logSink.Close()
	logSink = nil
	logrus.SetOutput(os.Stderr)
	return err
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", sim.DefaultSeed, "Master seed; each scenario derives its own stream from it")
	cmd.Flags().Int("iterations", sim.DefaultIterations, "Number of simulated customers per scenario")
	cmd.Flags().Float64("annual-transactions", sim.DefaultAnnualTransactions, "Annual industry transactions used for extrapolation")
	cmd.Flags().String("scenarios", "", "Scenario catalog YAML (default: built-in catalog)")
	cmd.Flags().String("output-dir", "", "Write raw data, summary and metadata files into this directory")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a single scenario and print its statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := commandSettings(cmd)
			if err != nil {
				return err
			}
			if err := s.validate(); err != nil {
				return err
			}
			return runSingle(cmd.Context(), cmd.OutOrStdout(), s)
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().String("scenario", sim.BaselineScenario, "Name of the scenario to simulate")
	return cmd
}

func newScenariosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Simulate every catalog scenario and compare them against " + sim.BaselineScenario,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := commandSettings(cmd)
			if err != nil {
				return err
			}
			if err := s.validate(); err != nil {
				return err
			}
			return runCatalog(cmd.Context(), cmd.OutOrStdout(), s)
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().Bool("parallel", false, "Run scenarios concurrently (results are identical to a sequential run)")
	cmd.Flags().Int("workers", 0, "Maximum concurrent scenarios with --parallel (0 = unlimited)")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the scenario catalog as YAML",
		Long: "Print the scenario catalog as YAML. The output can be edited and " +
			"passed back with --scenarios.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := commandSettings(cmd)
			if err != nil {
				return err
			}
			set, costs, err := loadScenarios(s.ScenariosFile, false)
			if err != nil {
				return err
			}
			return sim.NewScenarioConfig(set, costs).WriteYAML(cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("scenarios", "", "Normalize this catalog instead of printing the built-in one")
	return cmd
}

// loadScenarios returns the built-in catalog, or the one in path.
func loadScenarios(path string, requireBaseline bool) (*sim.ScenarioSet, map[string]float64, error) {
	if path == "" {
		return sim.DefaultScenarioSet(), sim.DefaultImplementationCosts(), nil
	}
	cfg, err := sim.LoadScenarioConfig(path)
	if err != nil {
		return nil, nil, err
	}
	set, err := cfg.ScenarioSet(requireBaseline)
	if err != nil {
		return nil, nil, fmt.Errorf("scenario catalog %s: %w", path, err)
	}
	return set, cfg.ImplementationCosts(), nil
}

func runSingle(ctx context.Context, out io.Writer, s *Settings) error {
	catalog, _, err := loadScenarios(s.ScenariosFile, false)
	if err != nil {
		return err
	}
	sc, ok := catalog.Get(s.Scenario)
	if !ok {
		return fmt.Errorf("unknown scenario %q; available: %s", s.Scenario, strings.Join(catalog.Names(), ", "))
	}
	set, err := sim.NewScenarioSet([]sim.Scenario{sc}, false)
	if err != nil {
		return err
	}

	coll := sim.RunScenarios(ctx, set, s.Iterations, runOptions(s))
	res, _ := coll.Get(sc.Name)
	if !res.OK() {
		return fmt.Errorf("scenario %q: %w", sc.Name, res.Err)
	}

	report.WriteStatisticsText(out, res.Name, res.Stats)
	fmt.Fprintln(out)
	comps, err := sim.CalculateComponents(res.Table)
	if err != nil {
		return err
	}
	report.WriteComponentsText(out, comps)
	fmt.Fprintln(out)
	rows, err := sim.PercentileTable(res.Table)
	if err != nil {
		return err
	}
	report.WritePercentileText(out, rows, res.Table.Len())

	if s.OutputDir == "" {
		return nil
	}
	meta := report.NewRunMetadata(s.Iterations, s.Seed, s.AnnualTransactions, coll.Names())
	return writeOutputs(s.OutputDir, meta, coll, nil, res)
}

func runCatalog(ctx context.Context, out io.Writer, s *Settings) error {
	set, costs, err := loadScenarios(s.ScenariosFile, true)
	if err != nil {
		return err
	}

	coll := sim.RunScenarios(ctx, set, s.Iterations, runOptions(s))
	for _, res := range coll.Results() {
		if !res.OK() {
			logrus.Errorf("scenario %q failed: %v", res.Name, res.Err)
			fmt.Fprintf(out, "%s: FAILED: %v\n\n", res.Name, res.Err)
			continue
		}
		report.WriteStatisticsText(out, res.Name, res.Stats)
		fmt.Fprintln(out)
	}

	cmp, err := sim.Compare(coll, sim.BaselineScenario, costs)
	if err != nil {
		return err
	}
	report.WriteComparisonText(out, cmp)

	if s.OutputDir != "" {
		meta := report.NewRunMetadata(s.Iterations, s.Seed, s.AnnualTransactions, coll.Names())
		base, _ := coll.Get(sim.BaselineScenario)
		if err := writeOutputs(s.OutputDir, meta, coll, cmp, base); err != nil {
			return err
		}
	}
	return coll.Err()
}

func runOptions(s *Settings) sim.RunOptions {
	return sim.RunOptions{
		Seed:               s.Seed,
		AnnualTransactions: s.AnnualTransactions,
		Parallel:           s.Parallel,
		Workers:            s.Workers,
	}
}

// writeOutputs writes one raw-data CSV per successful scenario, the summary,
// and the metadata file carrying the key findings of primary.
func writeOutputs(dir string, meta report.RunMetadata, coll *sim.ScenarioCollection, cmp *sim.Comparison, primary *sim.ScenarioResult) error {
	single := len(coll.Results()) == 1
	used := make(map[string]bool)
	for _, res := range coll.Results() {
		if !res.OK() {
			continue
		}
		name := report.RawDataFile
		if !single {
			name = uniqueRawDataFile(res.Name, used)
		}
		if _, err := report.WriteFile(dir, name, func(f *os.File) error {
			return report.WriteResultCSV(f, res.Table)
		}); err != nil {
			return err
		}
		meta.Files = append(meta.Files, name)
	}

	meta.Files = append(meta.Files, report.SummaryFile, report.MetadataFile)
	if _, err := report.WriteFile(dir, report.SummaryFile, func(f *os.File) error {
		report.WriteSummary(f, meta, coll, cmp)
		return nil
	}); err != nil {
		return err
	}
	_, err := report.WriteFile(dir, report.MetadataFile, func(f *os.File) error {
		return report.WriteMetadataJSON(f, meta, primary.Stats)
	})
	return err
}

const rawDataSuffix = "_raw_data.csv"

// rawDataFileFor maps "Moderate Reform" to "moderate_reform_raw_data.csv".
func rawDataFileFor(scenario string) string {
	return rawDataSlug(scenario) + rawDataSuffix
}

// uniqueRawDataFile is rawDataFileFor with a numeric suffix when another
// scenario already claimed the name: "Fee Cap" and "fee-cap" become
// fee_cap_raw_data.csv and fee_cap_2_raw_data.csv.
func uniqueRawDataFile(scenario string, used map[string]bool) string {
	slug := rawDataSlug(scenario)
	name := slug + rawDataSuffix
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s_%d%s", slug, i, rawDataSuffix)
	}
	used[name] = true
	if name != slug+rawDataSuffix {
		logrus.Warnf("scenario %q shares a file name with another scenario; writing %s", scenario, name)
	}
	return name
}

func rawDataSlug(scenario string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, strings.Join(strings.Fields(scenario), " "))
}
