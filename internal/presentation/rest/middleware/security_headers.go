package middleware

import (
	"net/url"
	"strings"

	"community-rewards/internal/infrastructure/config"

	"github.com/labstack/echo/v4"
)

const (
	swaggerCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline' https://unpkg.com https://fonts.googleapis.com; font-src 'self' https://fonts.gstatic.com; img-src 'self' data: https:;"
	pageCSP    = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:"
)

// SecurityHeadersMiddleware セキュリティヘッダーを設定するミドルウェア
// ウィジェットのページだけは設定されたホストからのiframe埋め込みを許可する
func SecurityHeadersMiddleware(cfg *config.EmbedConfig) echo.MiddlewareFunc {
	ancestors := frameAncestors(cfg.FrameAncestors)
	frameSrc := "'self'"
	if origin := originOf(cfg.WidgetURL); origin != "" {
		frameSrc += " " + origin
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			path := c.Request().URL.Path

			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			switch {
			case isSwaggerPath(path):
				h.Set("X-Frame-Options", "DENY")
				h.Set("Content-Security-Policy", swaggerCSP)
			case isEmbeddablePath(path):
				// X-Frame-Optionsは複数オリジンを表現できないためCSPのみで制御する
				h.Set("Content-Security-Policy", pageCSP+"; frame-ancestors "+ancestors)
			case path == "/embed/example":
				h.Set("X-Frame-Options", "DENY")
				h.Set("Content-Security-Policy", pageCSP+"; frame-src "+frameSrc+"; frame-ancestors 'none'")
			default:
				h.Set("X-Frame-Options", "DENY")
				h.Set("Content-Security-Policy", pageCSP+"; frame-ancestors 'none'")
			}

			if c.Scheme() == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			return next(c)
		}
	}
}

// isSwaggerPath Swagger関連のパスかどうかを判定
func isSwaggerPath(path string) bool {
	return path == "/redoc" || path == "/openapi.yaml" || path == "/swagger" || strings.HasPrefix(path, "/swagger/")
}

// isEmbeddablePath iframeに埋め込まれるウィジェットのパスかどうかを判定
func isEmbeddablePath(path string) bool {
	switch path {
	case "/", "/embed/community", "/widget/fragment", "/claim":
		return true
	}
	return false
}

func frameAncestors(origins []string) string {
	var parts []string
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			parts = append(parts, o)
		}
	}
	if len(parts) == 0 {
		return "'none'"
	}
	return strings.Join(parts, " ")
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
