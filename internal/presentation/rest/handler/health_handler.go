package handler

import (
	"net/http"
	"time"

	legacyapp "community-rewards/internal/application/legacy"

	"github.com/labstack/echo/v4"
)

// HealthHandler ヘルスチェックのハンドラー
type HealthHandler struct {
	legacyService *legacyapp.LegacyApplicationService
	now           func() time.Time
}

// NewHealthHandler 新しいHealthHandlerを作成
// 旧エンドポイントを無効にしている場合はlegacyServiceにnilを渡す
func NewHealthHandler(legacyService *legacyapp.LegacyApplicationService) *HealthHandler {
	return &HealthHandler{
		legacyService: legacyService,
		now:           time.Now,
	}
}

// Health ヘルスチェック
// @Summary ヘルスチェック
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	resp := HealthResponse{
		Status:    "ok",
		Checks:    map[string]string{},
		Timestamp: h.now().UTC(),
	}
	// /currentの更新失敗はサービス全体を止めないので劣化扱い
	if h.legacyService != nil {
		if h.legacyService.Healthy() {
			resp.Checks["legacy_current"] = "ok"
		} else {
			resp.Checks["legacy_current"] = "degraded"
			resp.Status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, resp)
}
