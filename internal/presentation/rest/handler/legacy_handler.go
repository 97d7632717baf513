package handler

import (
	"net/http"

	legacyapp "community-rewards/internal/application/legacy"

	"github.com/labstack/echo/v4"
)

// LegacyHandler 旧エンドポイントのハンドラー
type LegacyHandler struct {
	legacyService *legacyapp.LegacyApplicationService
}

// NewLegacyHandler 新しいLegacyHandlerを作成
func NewLegacyHandler(legacyService *legacyapp.LegacyApplicationService) *LegacyHandler {
	return &LegacyHandler{
		legacyService: legacyService,
	}
}

// Current 現在のギブアウェイを取得
// @Summary 現在のギブアウェイを取得
// @Description 定期的に更新しているキャッシュを返す
// @Tags legacy
// @Produce json
// @Success 200 {object} legacyapp.CurrentResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/legacy/current [get]
func (h *LegacyHandler) Current(c echo.Context) error {
	resp, err := h.legacyService.Current(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Me ログインユーザーのエントリーを取得
// @Summary ログインユーザーのエントリーを取得
// @Tags legacy
// @Produce json
// @Success 200 {object} legacyapp.MeResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/legacy/me [get]
func (h *LegacyHandler) Me(c echo.Context) error {
	resp, err := h.legacyService.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
