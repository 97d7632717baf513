package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"community-rewards/internal/infrastructure/config"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"

	"github.com/labstack/echo/v4"
)

const (
	// AdminKeyContextKey 検証済みの管理キーを格納するecho.Contextのキー
	AdminKeyContextKey = "admin_key"
	// AdminLoginTemplate 管理キー入力画面のテンプレート名
	AdminLoginTemplate = "admin_login.html"
)

// APIKeyMiddleware 管理画面のAPIキー認証ミドルウェア
// キーはX-API-Keyヘッダー、フォーム、クエリのadmin_keyの順に探す
func APIKeyMiddleware(cfg *config.AdminAPIConfig, logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			// 管理画面が無効化されている場合はエラー
			if !cfg.Enabled {
				logger.Warn(ctx, "Admin dashboard is disabled", nil)
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Error:   "forbidden",
					Message: "Admin dashboard is disabled",
				})
			}

			// IP制限のチェック（設定されている場合）
			if len(cfg.AllowedIPs) > 0 {
				clientIP := c.RealIP()
				if !isIPAllowed(clientIP, cfg.AllowedIPs) {
					logger.Warn(ctx, "IP address not allowed", map[string]interface{}{
						"ip": clientIP,
					})
					return c.JSON(http.StatusForbidden, ErrorResponse{
						Error:   "forbidden",
						Message: "IP address not allowed",
					})
				}
			}

			key := adminKeyFrom(c)
			if key == "" {
				logger.Warn(ctx, "Missing admin key", map[string]interface{}{
					"path": c.Request().URL.Path,
				})
				return unauthorized(c, "Missing admin key")
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
				logger.Warn(ctx, "Invalid admin key", map[string]interface{}{
					"path": c.Request().URL.Path,
				})
				return unauthorized(c, "Invalid admin key")
			}

			c.Set(AdminKeyContextKey, key)
			return next(c)
		}
	}
}

// AdminKey 検証済みの管理キーを返す
func AdminKey(c echo.Context) string {
	key, _ := c.Get(AdminKeyContextKey).(string)
	return key
}

func adminKeyFrom(c echo.Context) string {
	if key := c.Request().Header.Get("X-API-Key"); key != "" {
		return key
	}
	if key := c.FormValue("admin_key"); key != "" {
		return key
	}
	return c.QueryParam("admin_key")
}

// unauthorized ブラウザからのGETには入力画面、それ以外にはJSONを返す
func unauthorized(c echo.Context, message string) error {
	req := c.Request()
	if req.Method == http.MethodGet && strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMETextHTML) {
		return c.Render(http.StatusUnauthorized, AdminLoginTemplate, map[string]interface{}{
			"Error": message,
		})
	}
	return c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}

// isIPAllowed IPアドレスが許可リストに含まれているかチェック
func isIPAllowed(ip string, allowedIPs []string) bool {
	parsed := net.ParseIP(ip)
	for _, allowed := range allowedIPs {
		if strings.Contains(allowed, "/") {
			_, network, err := net.ParseCIDR(allowed)
			if err == nil && parsed != nil && network.Contains(parsed) {
				return true
			}
			continue
		}
		if ip == allowed {
			return true
		}
	}
	return false
}
