package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func newBufferLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{Level: level, Format: "json", Component: ComponentHTTP, Output: buf})
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelInfo)

	logger.WithComponent(ComponentStorage).Info("opened", FieldDBPath, "x.db")

	entry := lastEntry(t, &buf)
	if entry[FieldComponent] != ComponentStorage {
		t.Fatalf("component = %v, want %s", entry[FieldComponent], ComponentStorage)
	}
	if entry[FieldDBPath] != "x.db" {
		t.Fatalf("db_path = %v", entry[FieldDBPath])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %s", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn should be logged")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil || logger.Component() != "unknown" {
		t.Fatalf("expected default logger with unknown component, got %+v", logger)
	}
}

func TestMiddlewareChainCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelInfo)

	handler := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req_abc" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "inside")
		}),
	))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	entry := lastEntry(t, &buf)
	if entry[FieldRequestID] != "req_abc" {
		t.Fatalf("request_id = %v, want req_abc", entry[FieldRequestID])
	}
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, slog.LevelDebug))
	req := httptest.NewRequest(http.MethodGet, "/api/data?district=Pune", nil)

	sl.LogHTTPEnd(context.Background(), req, "req_1", http.StatusBadRequest, 3, "10.0.0.1")
	if entry := lastEntry(t, &buf); entry["level"] != "WARN" {
		t.Fatalf("4xx should log at WARN, got %v", entry["level"])
	}

	sl.LogHTTPEnd(context.Background(), req, "req_1", http.StatusInternalServerError, 3, "10.0.0.1")
	if entry := lastEntry(t, &buf); entry["level"] != "ERROR" {
		t.Fatalf("5xx should log at ERROR, got %v", entry["level"])
	}

	sl.LogError(context.Background(), "query failed", errors.New("boom"), ComponentStorage, OpRead, NewFields().WithDistrict("Pune"))
	entry := lastEntry(t, &buf)
	if entry[FieldError] != "boom" || entry[FieldDistrict] != "Pune" || entry[FieldComponent] != ComponentStorage {
		t.Fatalf("unexpected error entry: %v", entry)
	}
}
