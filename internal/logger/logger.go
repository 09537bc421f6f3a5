package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return New(f), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// DocumentParsed logs a successful parse
func (l *Logger) DocumentParsed(file string, blocks int, duration time.Duration) {
	l.Info("document parsed",
		"file", file,
		"blocks", blocks,
		"duration", duration.Round(time.Microsecond))
}

// ParseFailed logs a parse failure with its source position when known
func (l *Logger) ParseFailed(file string, err error) {
	l.Error("parse failed",
		"file", file,
		"error", err)
}

// DocumentSaved logs a persisted document
func (l *Logger) DocumentSaved(id, path string) {
	l.Info("document saved",
		"id", id,
		"path", path)
}

// ExportWritten logs a canonical re-export
func (l *Logger) ExportWritten(source, dest string, bytes int) {
	l.Info("export written",
		"source", source,
		"dest", dest,
		"bytes", bytes)
}

// MetadataResolved logs a resolved frontmatter block
func (l *Logger) MetadataResolved(file string, keys int) {
	l.Debug("metadata resolved",
		"file", file,
		"keys", keys)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(workspace, logFile string) {
	l.Debug("config loaded",
		"workspace", workspace,
		"log_file", logFile)
}
