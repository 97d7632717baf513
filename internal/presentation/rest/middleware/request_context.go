package middleware

import (
	"community-rewards/internal/application/widget"

	"github.com/labstack/echo/v4"
)

// RequestContextKey ページ文脈を格納するecho.Contextのキー
const RequestContextKey = "request_context"

// RequestContextMiddleware クエリ文字列からページ文脈を一度だけ組み立てる
func RequestContextMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(RequestContextKey, widget.NewRequestContext(c.QueryParams()))
			return next(c)
		}
	}
}

// RequestContext 格納されたページ文脈を返す（未設定ならクエリから組み立てる）
func RequestContext(c echo.Context) widget.RequestContext {
	if rc, ok := c.Get(RequestContextKey).(widget.RequestContext); ok {
		return rc
	}
	return widget.NewRequestContext(c.QueryParams())
}
