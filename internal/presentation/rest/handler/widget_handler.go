package handler

import (
	"errors"
	"net/http"
	"net/url"

	claimapp "community-rewards/internal/application/claim"
	widgetapp "community-rewards/internal/application/widget"
	"community-rewards/internal/domain/claim"
	"community-rewards/internal/domain/reward"
	restmiddleware "community-rewards/internal/presentation/rest/middleware"
	"community-rewards/internal/presentation/rest/view"

	"github.com/labstack/echo/v4"
)

// widgetPaths ウィジェットページとして描画するパス
var widgetPaths = map[string]bool{
	"/":                true,
	"/embed/community": true,
}

// WidgetHandler ウィジェットページのハンドラー
type WidgetHandler struct {
	widgetService *widgetapp.WidgetApplicationService
	claimService  *claimapp.ClaimApplicationService
}

// NewWidgetHandler 新しいWidgetHandlerを作成
func NewWidgetHandler(widgetService *widgetapp.WidgetApplicationService, claimService *claimapp.ClaimApplicationService) *WidgetHandler {
	return &WidgetHandler{
		widgetService: widgetService,
		claimService:  claimService,
	}
}

// Page ウィジェットページ
// トークンがなければ上流へリクエストせずに入力画面を返す
func (h *WidgetHandler) Page(c echo.Context) error {
	rc := restmiddleware.RequestContext(c)
	state := h.widgetService.Load(c.Request().Context(), rc)

	return c.Render(http.StatusOK, view.WidgetTemplate, view.WidgetPage{
		State:    state,
		Request:  rc,
		BasePath: basePath(c.Request().URL.Path),
	})
}

// Fragment 再取得用のフラグメント
// 失敗時はJSONエラーを返し、クライアントは直前の表示を保持する
func (h *WidgetHandler) Fragment(c echo.Context) error {
	rc := restmiddleware.RequestContext(c)
	if rc.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	state := h.widgetService.Refresh(c.Request().Context(), widgetapp.ViewState{}, rc.Token)
	if state.Error != "" {
		return stateError(state)
	}

	return c.Render(http.StatusOK, view.FragmentTemplate, view.WidgetPage{
		State:    state,
		Request:  rc,
		BasePath: "/",
	})
}

// Claim 請求フォームの送信
// 結果に関わらずウィジェットページへ303でリダイレクトし、再取得させる
func (h *WidgetHandler) Claim(c echo.Context) error {
	req := &claimapp.ClaimRequest{
		Ticket:   c.FormValue("ticket"),
		UserID:   c.FormValue("user_id"),
		RewardID: c.FormValue("reward_id"),
		Email:    c.FormValue("email"),
		Name:     c.FormValue("name"),
	}

	q := url.Values{}
	if token := c.FormValue("token"); token != "" {
		q.Set("token", token)
	} else if req.UserID != "" {
		q.Set("token", req.UserID)
	}
	if c.FormValue("embedded") != "" {
		q.Set("embedded", "1")
	}

	_, err := h.claimService.Claim(c.Request().Context(), req)
	switch {
	case err == nil:
		q.Set("claimed", "1")
	case errors.Is(err, claim.ErrPreconditionFailed):
		// 前提条件の不備は診断ログのみで、画面にはエラーを出さない
	default:
		q.Set("claim_error", claimErrorCode(err))
	}

	return c.Redirect(http.StatusSeeOther, basePath(c.FormValue("return_to"))+"?"+q.Encode())
}

// basePath 許可されたウィジェットのパスを返す
func basePath(p string) string {
	if widgetPaths[p] {
		return p
	}
	return "/"
}

// claimErrorCode 請求失敗をリダイレクト先へ伝えるコードを返す
func claimErrorCode(err error) string {
	switch {
	case errors.Is(err, claim.ErrClaimInProgress):
		return widgetapp.ClaimErrorInProgress
	case errors.Is(err, claim.ErrInvalidTicket), errors.Is(err, claim.ErrDuplicateTicket):
		return widgetapp.ClaimErrorExpired
	}
	var sc reward.StatusCoder
	if errors.As(err, &sc) {
		return widgetapp.FailedClaimCode(sc.HTTPStatus())
	}
	return widgetapp.ClaimErrorFailed
}
