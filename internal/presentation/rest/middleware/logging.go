package middleware

import (
	"time"

	otelinfra "community-rewards/internal/infrastructure/observability/otel"

	"github.com/labstack/echo/v4"
)

// quietPaths 正常時はDebugレベルで記録するパス
var quietPaths = map[string]struct{}{
	"/health":          {},
	"/embed/bridge.js": {},
	"/embed/host.js":   {},
}

// LoggingMiddleware ログミドルウェア
func LoggingMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			fields := map[string]interface{}{
				"method":      req.Method,
				"path":        req.URL.Path,
				"route":       c.Path(),
				"status_code": c.Response().Status,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": c.RealIP(),
				"user_agent":  req.UserAgent(),
			}
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				fields["request_id"] = id
			}

			switch {
			case err != nil:
				logger.Error(req.Context(), "HTTP request failed", err, fields)
			case c.Response().Status >= 500:
				logger.Warn(req.Context(), "HTTP request completed with server error", fields)
			default:
				if _, quiet := quietPaths[req.URL.Path]; quiet {
					logger.Debug(req.Context(), "HTTP request completed", fields)
				} else {
					logger.Info(req.Context(), "HTTP request completed", fields)
				}
			}

			return err
		}
	}
}
