package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	logger := slog.Default()
	ctx := ContextWithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatal("expected the attached logger back")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Fatal("expected nil for a bare context")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug")
	logger.Debug("hello", "key", "value")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "hello" || record["key"] != "value" {
		t.Fatalf("unexpected record %v", record)
	}
}
