package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newBufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return slog.New(&traceHandler{baseHandler: handler}), &buf
}

func withTestSpan(t *testing.T) (context.Context, func()) {
	t.Helper()

	exp := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(trace.WithSyncer(exp))
	otel.SetTracerProvider(tp)

	ctx, span := otel.Tracer("test").Start(context.Background(), "test-span")
	return ctx, func() {
		span.End()
		otel.SetTracerProvider(nil)
	}
}

func TestFilterLogsByLevel(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelWarn)
	ctx := context.Background()

	logger.InfoContext(ctx, "info message")
	if buf.Len() > 0 {
		t.Error("expected info message to be filtered out")
	}

	logger.WarnContext(ctx, "warn message")
	if buf.Len() == 0 {
		t.Error("expected warn message to be logged")
	}
}

func TestTraceAndSpanIDInclusion(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)

	ctx, done := withTestSpan(t)
	defer done()

	logger.InfoContext(ctx, "test message", "key", "value")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if traceID, ok := logEntry["trace_id"].(string); !ok || traceID == "" {
		t.Error("expected trace_id to be present and non-empty")
	}
	if spanID, ok := logEntry["span_id"].(string); !ok || spanID == "" {
		t.Error("expected span_id to be present and non-empty")
	}
	if logEntry["key"] != "value" {
		t.Errorf("expected key to be 'value', got %v", logEntry["key"])
	}
}

func TestLogWithoutTraceIDs(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)

	logger.InfoContext(context.Background(), "test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if _, exists := logEntry["trace_id"]; exists {
		t.Error("expected trace_id to not be present")
	}
	if _, exists := logEntry["span_id"]; exists {
		t.Error("expected span_id to not be present")
	}
}

func TestTraceIDsStayAtRootLevelWithGroups(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo)

	ctx, done := withTestSpan(t)
	defer done()

	logger.With("request_id", "req-123").WithGroup("http").
		InfoContext(ctx, "request", "method", "GET", "path", "/api/products")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if _, ok := logEntry["trace_id"].(string); !ok {
		t.Error("expected trace_id at root level")
	}
	if logEntry["request_id"] != "req-123" {
		t.Errorf("expected request_id at root level, got %v", logEntry["request_id"])
	}

	httpGroup, ok := logEntry["http"].(map[string]any)
	if !ok {
		t.Fatal("expected http group to be present")
	}
	if httpGroup["method"] != "GET" {
		t.Errorf("expected method in http group, got %v", httpGroup["method"])
	}
	if _, exists := httpGroup["trace_id"]; exists {
		t.Error("trace_id should not be nested inside the http group")
	}
}
