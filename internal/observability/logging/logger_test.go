package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLoggerCarriesServiceAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "faq-api", "info")
	logger.Info("api_listening", "port", "8080")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if record["service"] != "faq-api" {
		t.Fatalf("service = %v", record["service"])
	}
	if record["msg"] != "api_listening" || record["port"] != "8080" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestLoggerSuppressesRecordsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "faq-mcp", "warn")

	logger.Info("chatty")
	if buf.Len() != 0 {
		t.Fatalf("info record must be suppressed at warn level, got %s", buf.String())
	}
	logger.Warn("important")
	if buf.Len() == 0 {
		t.Fatalf("warn record must be emitted at warn level")
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
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
