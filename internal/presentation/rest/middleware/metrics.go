package middleware

import (
	"time"

	otelinfra "community-rewards/internal/infrastructure/observability/otel"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware メトリクス記録ミドルウェア
func MetricsMiddleware(metrics *otelinfra.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			ctx := c.Request().Context()

			// パスではなくルートで集計する（トークンがラベルに入らないように）
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordRequest(ctx, c.Request().Method, route)

			err := next(c)

			metrics.RecordResponseTime(ctx, c.Request().Method, route, time.Since(start).Seconds())

			// 4xx, 5xxの場合のみ記録
			if statusCode := c.Response().Status; statusCode >= 400 || err != nil {
				errorType := "client_error"
				if statusCode >= 500 || (err != nil && statusCode < 400) {
					errorType = "server_error"
				}
				metrics.RecordError(ctx, errorType)
			}

			return err
		}
	}
}
