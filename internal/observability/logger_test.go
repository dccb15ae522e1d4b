package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func validEntry() QueryLogEntry {
	return QueryLogEntry{
		QueryID:       "q-1",
		User:          "redash",
		Source:        "presto",
		Tables:        []string{"analytics.events"},
		ExecutionTime: 1500 * time.Millisecond,
		Outcome:       "success",
	}
}

func TestJSONLoggerWritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)

	if err := logger.LogQuery(context.Background(), validEntry()); err != nil {
		t.Fatalf("LogQuery() error = %v", err)
	}

	line := buf.String()
	if !strings.HasSuffix(line, "\n") || strings.Count(line, "\n") != 1 {
		t.Fatalf("output is not a single line: %q", line)
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out["query_id"] != "q-1" || out["user"] != "redash" || out["source"] != "presto" {
		t.Fatalf("output = %v", out)
	}
	if out["execution_time_ms"] != float64(1500) {
		t.Fatalf("execution_time_ms = %v", out["execution_time_ms"])
	}
	if out["level"] != "info" {
		t.Fatalf("level = %v", out["level"])
	}
}

func TestJSONLoggerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)

	entry := validEntry()
	entry.Outcome = "error"
	entry.Error = "table not found"

	if err := logger.LogQuery(context.Background(), entry); err != nil {
		t.Fatalf("LogQuery() error = %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["level"] != "error" || out["error"] != "table not found" {
		t.Fatalf("output = %v", out)
	}
}

func TestJSONLoggerNilTablesBecomesEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)

	entry := validEntry()
	entry.Tables = nil
	if err := logger.LogQuery(context.Background(), entry); err != nil {
		t.Fatalf("LogQuery() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"tables":[]`) {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestValidateRejectsIncompleteEntries(t *testing.T) {
	entry := validEntry()
	entry.QueryID = ""
	if err := entry.Validate(); err == nil {
		t.Fatal("missing query id must be rejected")
	}

	entry = validEntry()
	entry.User = ""
	if err := entry.Validate(); err == nil {
		t.Fatal("missing user must be rejected")
	}

	entry = validEntry()
	entry.ExecutionTime = -time.Second
	if err := entry.Validate(); err == nil {
		t.Fatal("negative execution time must be rejected")
	}
}

func TestNoopLoggerDiscards(t *testing.T) {
	logger := NewNoopLogger()
	if err := logger.LogQuery(context.Background(), QueryLogEntry{}); err != nil {
		t.Fatalf("LogQuery() error = %v", err)
	}
}
