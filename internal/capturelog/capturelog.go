// Package capturelog records the outcome of every processed reference.
//
// The capture log is a plain text file opened in append mode, one line per
// reference:
//
//	2026-01-02T15:04:05.000Z\tdesign thinking | 12345.png
//
// Events with more detail go to a separate NDJSON log produced by
// NewEventLogger.
package capturelog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Outcome markers written after the " | " separator.
const (
	OutcomeNoTemplate = "NO_TEMPLATE_FOUND"
	outcomeError      = "ERROR: "
)

// timestampLayout matches ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Log is an append-only capture log.
type Log struct {
	mu  sync.Mutex
	w   io.WriteCloser
	now func() time.Time
}

// Open opens path for appending, creating it and its parent directory.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // operator-chosen output dir
	if err != nil {
		return nil, fmt.Errorf("open capture log: %w", err)
	}
	return &Log{w: f, now: time.Now}, nil
}

// Record appends one line for source.
func (l *Log) Record(source, outcome string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("%s\t%s | %s\n", l.now().UTC().Format(timestampLayout), oneLine(source), oneLine(outcome))
	_, err := io.WriteString(l.w, line)
	return err
}

// RecordNoTemplate appends a NO_TEMPLATE_FOUND line.
func (l *Log) RecordNoTemplate(source string) error {
	return l.Record(source, OutcomeNoTemplate)
}

// RecordFile appends the name of a saved screenshot.
func (l *Log) RecordFile(source, filename string) error {
	return l.Record(source, filename)
}

// RecordError appends an ERROR line.
func (l *Log) RecordError(source string, err error) error {
	return l.Record(source, outcomeError+err.Error())
}

// Close closes the underlying file.
func (l *Log) Close() error {
	return l.w.Close()
}

func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// NewEventLogger returns an NDJSON logger. Every event carries a scope
// attribute naming the stage that produced it (resolve, browser, step,
// artifact, runner).
func NewEventLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Scope returns logger tagged with scope.
func Scope(logger *slog.Logger, scope string) *slog.Logger {
	return logger.With("scope", scope)
}
