package handler

import (
	"net/http"

	claimapp "community-rewards/internal/application/claim"
	widgetapp "community-rewards/internal/application/widget"

	"github.com/labstack/echo/v4"
)

// RewardsHandler iframe向けJSON APIのハンドラー
type RewardsHandler struct {
	widgetService *widgetapp.WidgetApplicationService
	claimService  *claimapp.ClaimApplicationService
}

// NewRewardsHandler 新しいRewardsHandlerを作成
func NewRewardsHandler(widgetService *widgetapp.WidgetApplicationService, claimService *claimapp.ClaimApplicationService) *RewardsHandler {
	return &RewardsHandler{
		widgetService: widgetService,
		claimService:  claimService,
	}
}

// GetRewards ユーザーのリワード取得ハンドラー
// @Summary リワードを取得
// @Description 正規化済みの表示モデルと請求可否の判定を返します
// @Tags rewards
// @Produce json
// @Param user_id path string true "ユーザーID" example(9999999999)
// @Success 200 {object} RewardsResponse "取得成功"
// @Failure 404 {object} ErrorResponse "ユーザーが見つからない"
// @Failure 502 {object} ErrorResponse "上流APIのエラー"
// @Router /api/iframe/rewards/{user_id} [get]
func (h *RewardsHandler) GetRewards(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	state := h.widgetService.Refresh(c.Request().Context(), widgetapp.ViewState{}, userID)
	if state.Error != "" {
		return stateError(state)
	}

	return c.JSON(http.StatusOK, RewardsResponse{
		Data:        state.Data,
		Decision:    newDecisionResponse(state.Decision),
		BarWidth:    state.BarWidth,
		ClaimTicket: state.ClaimTicket,
	})
}

// PostClaim 請求ハンドラー
// @Summary リワードを請求
// @Description チケットを検証し、上流へ一度だけ請求を送信します
// @Tags rewards
// @Accept json
// @Produce json
// @Param user_id path string true "ユーザーID"
// @Param request body ClaimRequestBody true "請求リクエスト"
// @Success 200 {object} ClaimResponseBody "請求成功"
// @Failure 400 {object} ErrorResponse "前提条件エラー"
// @Failure 403 {object} ErrorResponse "無効なチケット"
// @Failure 409 {object} ErrorResponse "請求処理中"
// @Failure 502 {object} ErrorResponse "上流APIのエラー"
// @Router /api/iframe/rewards/{user_id}/claim [post]
func (h *RewardsHandler) PostClaim(c echo.Context) error {
	var body ClaimRequestBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.claimService.Claim(c.Request().Context(), &claimapp.ClaimRequest{
		Ticket:   body.Ticket,
		UserID:   c.Param("user_id"),
		RewardID: body.RewardID,
		Email:    body.Email,
		Name:     body.Name,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ClaimResponseBody{
		TicketID: resp.TicketID,
		Status:   "claimed",
		Replayed: resp.Replayed,
	})
}
