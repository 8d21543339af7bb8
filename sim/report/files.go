package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Output file names written by the CLI.
const (
	RawDataFile  = "monte_carlo_raw_data.csv"
	SummaryFile  = "simulation_summary.txt"
	MetadataFile = "metadata.json"
)

// WriteFile creates dir if needed, then writes name inside it through fn.
// It returns the path written.
func WriteFile(dir, name string, fn func(f *os.File) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if err := fn(file); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	logrus.Infof("wrote %s", path)
	return path, nil
}
