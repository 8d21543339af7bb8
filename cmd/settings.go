package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. HARMSIM_SEED.
const EnvPrefix = "HARMSIM"

// Settings are the resolved run settings. Precedence, lowest first:
// flag defaults, .env file, HARMSIM_* environment, explicit flags.
type Settings struct {
	LogLevel           string
	LogFile            string
	Seed               int64
	Iterations         int
	AnnualTransactions float64
	Scenario           string
	ScenariosFile      string
	OutputDir          string
	Parallel           bool
	Workers            int
}

// loadSettings reads the optional env file, then resolves every flag of cmd
// through viper. A missing env file is not an error.
func loadSettings(cmd *cobra.Command) (*Settings, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
			}
		} else {
			logrus.Debugf("loaded environment from %s", envFile)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	s := &Settings{
		LogLevel:           v.GetString("log"),
		LogFile:            v.GetString("log-file"),
		Seed:               v.GetInt64("seed"),
		Iterations:         v.GetInt("iterations"),
		AnnualTransactions: v.GetFloat64("annual-transactions"),
		Scenario:           v.GetString("scenario"),
		ScenariosFile:      v.GetString("scenarios"),
		OutputDir:          v.GetString("output-dir"),
		Parallel:           v.GetBool("parallel"),
		Workers:            v.GetInt("workers"),
	}
	return s, nil
}

type settingsKey struct{}

// commandSettings returns the settings resolved by the root pre-run hook,
// loading them directly when cmd runs outside the root command.
func commandSettings(cmd *cobra.Command) (*Settings, error) {
	if ctx := cmd.Context(); ctx != nil {
		if s, ok := ctx.Value(settingsKey{}).(*Settings); ok {
			return s, nil
		}
	}
	return loadSettings(cmd)
}

// validate checks the settings that apply to simulation commands.
func (s *Settings) validate() error {
	if s.Iterations <= 0 {
		return fmt.Errorf("--iterations must be positive, got %d", s.Iterations)
	}
	if s.AnnualTransactions <= 0 {
		return fmt.Errorf("--annual-transactions must be positive, got %g", s.AnnualTransactions)
	}
	if s.Workers < 0 {
		return fmt.Errorf("--workers must not be negative, got %d", s.Workers)
	}
	return nil
}
