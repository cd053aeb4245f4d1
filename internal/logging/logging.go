// Package logging configures the process logger: colored console output
// plus a plain copy in a timestamped file under the logs dir.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel converts a config string to a zerolog level. Unknown
// strings fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.Format("20060102_150405")),
	)
}

// Setup sets the global level and UTC timestamps, then builds a logger
// writing to the console and to a session log file. The returned closer
// owns the file.
func Setup(level, logsDir, name string) (zerolog.Logger, func() error, error) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("creating logs directory: %w", err)
	}
	file, err := os.Create(LogFilePath(logsDir, name, time.Now().UTC()))
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("creating log file: %w", err)
	}

	mlw := zerolog.MultiLevelWriter(
		// write console format with colors to console
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
		// write console format without colors to file
		zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		},
	)

	logger := zerolog.New(mlw).With().Timestamp().Logger()
	return logger, file.Close, nil
}
