package telemetry

import (
	"context"
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		ServiceName:    "products-api",
		ServiceVersion: "0.1.0",
		Environment:    "test",
		EnableTracing:  true,
		EnableMetrics:  true,
		SampleRate:     1.0,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"missing service version", func(c *Config) { c.ServiceVersion = "" }, ErrMissingServiceVersion},
		{"sample rate too high", func(c *Config) { c.SampleRate = 1.5 }, ErrInvalidSampleRate},
		{"sample rate negative", func(c *Config) { c.SampleRate = -0.1 }, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInitializeAndShutdown(t *testing.T) {
	ctx := context.Background()

	tel, err := Initialize(ctx, validConfig(),
		WithTraceExporter(NewNoopTraceExporter()),
		WithMetricExporter(NewNoopMetricExporter()),
	)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if tel.TracerProvider() == nil {
		t.Error("expected tracer provider to be set")
	}
	if tel.MeterProvider() == nil {
		t.Error("expected meter provider to be set")
	}

	if err := tel.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestStartSpanProducesIDs(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test-operation")
	defer span.End()

	if TraceID(ctx) == "" && span.SpanContext().IsValid() {
		t.Error("expected trace ID for a valid span context")
	}
}
