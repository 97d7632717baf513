package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー数
	ErrorCount metric.Int64Counter

	// 上流APIの呼び出し数
	UpstreamCallCount metric.Int64Counter

	// 上流APIのレイテンシ
	UpstreamLatency metric.Float64Histogram

	// 請求結果
	ClaimCount metric.Int64Counter

	// iframeリサイズメッセージの受理・拒否
	ResizeMessageCount metric.Int64Counter

	// 定期リフレッシュ
	RefreshCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	upstreamCallCount, err := meter.Int64Counter(
		"upstream_calls_total",
		metric.WithDescription("Total number of rewards API calls"),
	)
	if err != nil {
		return nil, err
	}

	upstreamLatency, err := meter.Float64Histogram(
		"upstream_latency_seconds",
		metric.WithDescription("Rewards API latency in seconds"),
	)
	if err != nil {
		return nil, err
	}

	claimCount, err := meter.Int64Counter(
		"claims_total",
		metric.WithDescription("Total number of claim attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	resizeMessageCount, err := meter.Int64Counter(
		"iframe_resize_messages_total",
		metric.WithDescription("Total number of iframe resize messages by result"),
	)
	if err != nil {
		return nil, err
	}

	refreshCount, err := meter.Int64Counter(
		"refreshes_total",
		metric.WithDescription("Total number of scheduled refreshes by result"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:       requestCount,
		ResponseTime:       responseTime,
		ErrorCount:         errorCount,
		UpstreamCallCount:  upstreamCallCount,
		UpstreamLatency:    upstreamLatency,
		ClaimCount:         claimCount,
		ResizeMessageCount: resizeMessageCount,
		RefreshCount:       refreshCount,
	}, nil
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}

// RecordUpstreamCall 上流APIの呼び出しを記録
func (m *Metrics) RecordUpstreamCall(ctx context.Context, operation string, statusCode int, duration float64) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Int("status_code", statusCode),
	)
	m.UpstreamCallCount.Add(ctx, 1, attrs)
	m.UpstreamLatency.Record(ctx, duration, attrs)
}

// RecordClaim 請求結果を記録
func (m *Metrics) RecordClaim(ctx context.Context, outcome string) {
	m.ClaimCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
		),
	)
}

// RecordResizeMessage リサイズメッセージの検証結果を記録
func (m *Metrics) RecordResizeMessage(ctx context.Context, result string) {
	m.ResizeMessageCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("result", result),
		),
	)
}

// RecordRefresh 定期リフレッシュの結果を記録
func (m *Metrics) RecordRefresh(ctx context.Context, job string, success bool) {
	m.RefreshCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("job", job),
			attribute.Bool("success", success),
		),
	)
}
