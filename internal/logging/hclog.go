// Package logging adapts hashicorp/go-hclog to fly.Logger.
package logging

import (
	"io"
	"os"
	"sort"

	"github.com/hashicorp/go-hclog"
)

// HCLogger implements fly.Logger on top of an hclog.Logger.
type HCLogger struct {
	logger hclog.Logger
}

// Options configures NewHCLogger.
type Options struct {
	Name   string
	Level  string
	JSON   bool
	Output io.Writer
}

// NewHCLogger creates a logger writing to Output, or stderr when unset. An
// unknown level falls back to info.
func NewHCLogger(opts Options) *HCLogger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	return &HCLogger{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:       opts.Name,
			Level:      level,
			Output:     output,
			JSONFormat: opts.JSON,
		}),
	}
}

// Wrap adapts an existing hclog.Logger.
func Wrap(logger hclog.Logger) *HCLogger {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &HCLogger{logger: logger}
}

// Debug logs at debug level.
func (l *HCLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, keyValues(fields)...)
}

// Info logs at info level.
func (l *HCLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, keyValues(fields)...)
}

// Warn logs at warn level.
func (l *HCLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, keyValues(fields)...)
}

// Error logs at error level.
func (l *HCLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, keyValues(fields)...)
}

// keyValues flattens fields in key order so output is stable.
func keyValues(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}
