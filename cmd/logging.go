package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging configures the global logrus logger. With logFile set, log
// lines also go to a rotating file; the returned closer releases it.
func setupLogging(level, logFile string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		// Colour codes would end up in the log file.
		DisableColors: !isTerminal || logFile != "",
	})

	if logFile == "" {
		logrus.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	fileWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     30, // days
		Compress:   true,
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, fileWriter))
	return fileWriter, nil
}
