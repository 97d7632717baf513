package middleware

import (
	"errors"
	"net/http"

	otelinfra "community-rewards/internal/infrastructure/observability/otel"

	"github.com/labstack/echo/v4"

	"community-rewards/internal/domain/claim"
	"community-rewards/internal/domain/embed"
	"community-rewards/internal/domain/reward"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			if c.Response().Committed {
				logger.Error(c.Request().Context(), "Error after response committed", err, map[string]interface{}{
					"path": c.Request().URL.Path,
				})
				return nil
			}

			return handleError(c, err, logger)
		}
	}
}

// domainError ドメインエラーとHTTPレスポンスの対応
type domainError struct {
	target  error
	status  int
	code    string
	message string
}

var domainErrors = []domainError{
	{claim.ErrPreconditionFailed, http.StatusBadRequest, "precondition_failed", "Claim precondition failed"},
	{claim.ErrInvalidTicket, http.StatusForbidden, "invalid_ticket", "Invalid claim ticket"},
	{claim.ErrClaimInProgress, http.StatusConflict, "claim_in_progress", "Claim already in progress"},
	{claim.ErrDuplicateTicket, http.StatusConflict, "duplicate_ticket", "Claim ticket already used"},
	{reward.ErrMissingToken, http.StatusBadRequest, "missing_token", "Missing token"},
	{reward.ErrInvalidAdminAction, http.StatusBadRequest, "invalid_admin_action", "Invalid admin action"},
	{reward.ErrInvalidGiveawayField, http.StatusBadRequest, "invalid_giveaway_field", "Invalid giveaway field"},
	{embed.ErrOriginNotAllowed, http.StatusForbidden, "origin_not_allowed", "Origin not allowed"},
	{embed.ErrMalformedMessage, http.StatusBadRequest, "malformed_message", "Malformed resize message"},
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	for _, de := range domainErrors {
		if errors.Is(err, de.target) {
			logger.Warn(ctx, de.message, map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(de.status, ErrorResponse{
				Error:   de.code,
				Message: err.Error(),
			})
		}
	}

	// 上流のエラー（404/422はユーザー不在として扱う）
	if errors.Is(err, reward.ErrRewardNotFound) {
		logger.Warn(ctx, "User not found", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "user_not_found",
			Message: err.Error(),
		})
	}

	var sc reward.StatusCoder
	if errors.As(err, &sc) {
		status := sc.HTTPStatus()
		if status >= 400 && status < 500 {
			logger.Warn(ctx, "Upstream rejected request", map[string]interface{}{
				"status_code": status,
				"error":       err.Error(),
			})
			return c.JSON(status, ErrorResponse{
				Error:   "upstream_rejected",
				Message: err.Error(),
				Code:    http.StatusText(status),
			})
		}
		logger.Error(ctx, "Upstream error", err, map[string]interface{}{
			"status_code": status,
			"path":        c.Request().URL.Path,
		})
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: err.Error(),
		})
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
