// Package observability provides structured query logging for querybridge.
//
// Every execution emits one entry: query id, effective user, tables
// referenced, duration, outcome, and error (if any). Output is one JSON
// object per line.
package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// QueryLogEntry contains the fields logged for one query execution.
type QueryLogEntry struct {
	// QueryID is the unique identifier for this execution.
	QueryID string

	// User is the effective username the query ran as.
	User string

	// Source is the data source kind, e.g. "presto".
	Source string

	// Tables are the table references extracted from the query.
	// May be empty for queries like "SHOW TABLES".
	Tables []string

	// ExecutionTime is how long the query took. Must be non-negative.
	ExecutionTime time.Duration

	// Outcome is "success", "error", or "cancelled".
	Outcome string

	// Error contains the error message if the query failed.
	Error string
}

// Validate checks that all required fields are present.
func (e *QueryLogEntry) Validate() error {
	if e.QueryID == "" {
		return fmt.Errorf("observability: query_id is required")
	}
	if e.User == "" {
		return fmt.Errorf("observability: user is required")
	}
	if e.ExecutionTime < 0 {
		return fmt.Errorf("observability: execution_time cannot be negative")
	}
	return nil
}

// QueryLogger is the interface for query logging.
type QueryLogger interface {
	// LogQuery logs a query execution event.
	// Returns an error if logging fails or the entry is invalid.
	LogQuery(ctx context.Context, entry QueryLogEntry) error
}

// jsonLogOutput is the structured format for JSON logs.
type jsonLogOutput struct {
	Timestamp       string   `json:"timestamp"`
	Level           string   `json:"level"`
	QueryID         string   `json:"query_id"`
	User            string   `json:"user"`
	Source          string   `json:"source"`
	Tables          []string `json:"tables"`
	ExecutionTimeMs int64    `json:"execution_time_ms"`
	Outcome         string   `json:"outcome"`
	Error           string   `json:"error,omitempty"`
}

// JSONLogger implements QueryLogger with JSON line output.
type JSONLogger struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewJSONLogger creates a new JSON logger writing to the given writer.
func NewJSONLogger(w io.Writer) *JSONLogger {
	return &JSONLogger{writer: w}
}

// LogQuery logs a query execution event as a single JSON line.
func (l *JSONLogger) LogQuery(ctx context.Context, entry QueryLogEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("observability: context error: %w", err)
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	level := "info"
	if entry.Error != "" {
		level = "error"
	}

	output := jsonLogOutput{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Level:           level,
		QueryID:         entry.QueryID,
		User:            entry.User,
		Source:          entry.Source,
		Tables:          entry.Tables,
		ExecutionTimeMs: entry.ExecutionTime.Milliseconds(),
		Outcome:         entry.Outcome,
		Error:           entry.Error,
	}

	// Ensure tables is never nil in JSON
	if output.Tables == nil {
		output.Tables = []string{}
	}

	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("observability: failed to marshal log: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("observability: failed to write log: %w", err)
	}
	return nil
}

// NoopLogger is a logger that discards all logs.
// Useful for testing or when logging is disabled.
type NoopLogger struct{}

// NewNoopLogger creates a new no-op logger.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// LogQuery does nothing and always succeeds.
func (l *NoopLogger) LogQuery(ctx context.Context, entry QueryLogEntry) error {
	return nil
}
