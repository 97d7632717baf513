package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics(t *testing.T) {
	// Noopメータープロバイダーを使用
	otel.SetMeterProvider(noop.NewMeterProvider())

	metrics, err := NewMetrics("test-meter")
	require.NoError(t, err)
	assert.NotNil(t, metrics)

	assert.NotNil(t, metrics.RequestCount)
	assert.NotNil(t, metrics.ResponseTime)
	assert.NotNil(t, metrics.ErrorCount)
	assert.NotNil(t, metrics.UpstreamCallCount)
	assert.NotNil(t, metrics.UpstreamLatency)
	assert.NotNil(t, metrics.ClaimCount)
	assert.NotNil(t, metrics.ResizeMessageCount)
	assert.NotNil(t, metrics.RefreshCount)
}

func TestMetrics_RecordWithNoopProvider(t *testing.T) {
	otel.SetMeterProvider(noop.NewMeterProvider())

	metrics, err := NewMetrics("test-meter")
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRequest(ctx, "GET", "/")
	metrics.RecordResponseTime(ctx, "GET", "/", 0.012)
	metrics.RecordError(ctx, "upstream_error")
	metrics.RecordUpstreamCall(ctx, "fetch_user_rewards", 200, 0.05)
	metrics.RecordClaim(ctx, "succeeded")
	metrics.RecordResizeMessage(ctx, "accepted")
	metrics.RecordRefresh(ctx, "legacy_current", true)
}

func TestMetrics_RecordClaim_CollectsOutcome(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	defer otel.SetMeterProvider(noop.NewMeterProvider())

	metrics, err := NewMetrics("test-meter")
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordClaim(ctx, "succeeded")
	metrics.RecordClaim(ctx, "succeeded")
	metrics.RecordClaim(ctx, "failed")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "claims_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[outcome.AsString()] = dp.Value
			}
		}
	}

	assert.Equal(t, int64(2), counts["succeeded"])
	assert.Equal(t, int64(1), counts["failed"])
}
