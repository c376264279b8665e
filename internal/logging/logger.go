// Package logging configures logrus and keeps the debug helpers used by
// the storage layer.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Settings selects level and output format
type Settings struct {
	Level  string
	Format string
	Debug  bool
	Output io.Writer
}

func init() {
	if DebugEnvSet() {
		log.SetLevel(log.DebugLevel)
	}
}

// New configures the standard logrus logger and returns it. Debug, or a
// non-empty TODO_DEBUG, forces the debug level.
func New(s Settings) (*log.Logger, error) {
	logger := log.StandardLogger()
	if err := Configure(logger, s); err != nil {
		return nil, err
	}
	return logger, nil
}

// Configure applies s to logger
func Configure(logger *log.Logger, s Settings) error {
	level := log.InfoLevel
	if s.Level != "" {
		parsed, err := log.ParseLevel(s.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", s.Level, err)
		}
		level = parsed
	}
	if s.Debug || DebugEnvSet() {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(s.Format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", s.Format)
	}

	if s.Output != nil {
		logger.SetOutput(s.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}
	return nil
}

// DebugEnvSet returns true if TODO_DEBUG is set to a non-empty value
func DebugEnvSet() bool {
	return os.Getenv("TODO_DEBUG") != ""
}

// DebugEnabled returns true if debug output is on, either through
// TODO_DEBUG or the configured level
func DebugEnabled() bool {
	return DebugEnvSet() || log.IsLevelEnabled(log.DebugLevel)
}

// Debugf logs a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		log.StandardLogger().Logf(log.DebugLevel, strings.TrimSuffix(format, "\n"), args...)
	}
}

// Debugln logs a debug message only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		log.StandardLogger().Logln(log.DebugLevel, args...)
	}
}
