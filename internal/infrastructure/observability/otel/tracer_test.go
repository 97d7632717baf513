package otel

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"community-rewards/internal/infrastructure/config"
)

func TestInitTracer(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.OpenTelemetryConfig
		wantError string
	}{
		{
			name: "正常系: 無効",
			cfg:  &config.OpenTelemetryConfig{Enabled: false},
		},
		{
			name: "正常系: エクスポートなし",
			cfg: &config.OpenTelemetryConfig{
				Enabled:        true,
				TraceExporter:  "none",
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
			},
		},
		{
			name: "正常系: OTLP",
			cfg: &config.OpenTelemetryConfig{
				Enabled:        true,
				TraceExporter:  "otlp",
				OTLPEndpoint:   "localhost:4318",
				OTLPInsecure:   true,
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
			},
		},
		{
			name: "異常系: 未対応のエクスポーター",
			cfg: &config.OpenTelemetryConfig{
				Enabled:       true,
				TraceExporter: "jaeger",
			},
			wantError: "unsupported trace exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := InitTracer(tt.cfg)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Nil(t, shutdown)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, shutdown)
			_ = shutdown(context.Background())
		})
	}
}

func TestInitTracer_RegistersPropagatorWhenDisabled(t *testing.T) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())

	_, err := InitTracer(&config.OpenTelemetryConfig{Enabled: false})
	require.NoError(t, err)

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestInitTracer_SpansCarryTraceContext(t *testing.T) {
	shutdown, err := InitTracer(&config.OpenTelemetryConfig{
		Enabled:        true,
		TraceExporter:  "none",
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
	})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	ctx, span := Tracer("test-tracer").Start(context.Background(), "fetch")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())

	header := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
	assert.NotEmpty(t, header.Get("traceparent"))
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{name: "正常系: 全件", ratio: 1, want: "AlwaysOnSampler"},
		{name: "正常系: 比率指定", ratio: 0.5, want: "TraceIDRatioBased{0.5}"},
		{name: "正常系: ゼロは送信しない", ratio: 0, want: "AlwaysOffSampler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler := newSampler(&config.OpenTelemetryConfig{SampleRatio: tt.ratio})
			assert.Contains(t, sampler.Description(), tt.want)
		})
	}
}
