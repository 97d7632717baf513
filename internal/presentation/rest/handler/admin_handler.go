package handler

import (
	"errors"
	"net/http"
	"net/url"

	adminapp "community-rewards/internal/application/admin"
	"community-rewards/internal/domain/reward"
	restmiddleware "community-rewards/internal/presentation/rest/middleware"
	"community-rewards/internal/presentation/rest/view"

	"github.com/labstack/echo/v4"
)

// AdminHandler 管理画面のハンドラー
type AdminHandler struct {
	adminService *adminapp.AdminApplicationService
}

// NewAdminHandler 新しいAdminHandlerを作成
func NewAdminHandler(adminService *adminapp.AdminApplicationService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Dashboard 管理画面
// @Summary 管理画面
// @Description ギブアウェイ一覧と選択中の統計を表示する
// @Tags admin
// @Produce html
// @Param X-API-Key header string false "管理キー"
// @Param selected query string false "統計を表示するギブアウェイID"
// @Success 200 {string} string "HTML"
// @Failure 401 {object} ErrorResponse
// @Router /admin [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	key := restmiddleware.AdminKey(c)
	selected := c.QueryParam("selected")

	resp, err := h.adminService.Dashboard(c.Request().Context(), key, selected)
	if err != nil {
		if rejectedKey(err) {
			return c.Render(http.StatusUnauthorized, view.AdminLoginTemplate, map[string]interface{}{
				"Error": "The admin key was rejected.",
			})
		}
		return err
	}

	return c.Render(http.StatusOK, view.AdminTemplate, view.AdminPage{
		Giveaways:  resp.Giveaways,
		Selected:   resp.Selected,
		SelectedID: selected,
		AdminKey:   key,
		Notice:     c.QueryParam("notice"),
		NoticeBad:  c.QueryParam("notice_bad") != "",
	})
}

// Create ギブアウェイを作成
// @Summary ギブアウェイを作成
// @Tags admin
// @Accept x-www-form-urlencoded
// @Param X-API-Key header string false "管理キー"
// @Param title formData string false "タイトル"
// @Param prize_name formData string false "賞品名"
// @Param prize_msrp_usd formData number false "賞品の定価（USD）"
// @Param revenue_target_usd formData number false "解放に必要な売上（USD）"
// @Param progress_curve formData number false "進捗カーブ"
// @Success 303 {string} string "管理画面へリダイレクト"
// @Failure 401 {object} ErrorResponse
// @Router /admin/giveaways [post]
func (h *AdminHandler) Create(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	created, err := h.adminService.Create(c.Request().Context(), restmiddleware.AdminKey(c), form)
	if err != nil {
		return h.redirect(c, "", "Create failed: "+err.Error(), true)
	}
	return h.redirect(c, created.ID.String(), "Giveaway "+created.ID.String()+" created.", false)
}

// Act 行アクションを実行
// @Summary 行アクションを実行
// @Tags admin
// @Param X-API-Key header string false "管理キー"
// @Param id path string true "ギブアウェイID"
// @Param action path string true "アクション" Enums(set_current, pause, resume, force_unlock, draw, archive, unarchive, delete)
// @Success 303 {string} string "管理画面へリダイレクト"
// @Failure 400 {object} ErrorResponse
// @Router /admin/giveaways/{id}/{action} [post]
func (h *AdminHandler) Act(c echo.Context) error {
	id := c.Param("id")
	action := c.Param("action")

	err := h.adminService.Act(c.Request().Context(), restmiddleware.AdminKey(c), id, action)
	if errors.Is(err, reward.ErrInvalidAdminAction) {
		return err
	}
	if err != nil {
		return h.redirect(c, id, action+" failed: "+err.Error(), true)
	}

	// 削除したギブアウェイの統計は表示できない
	selected := id
	if action == reward.AdminActionDelete.String() {
		selected = ""
	}
	return h.redirect(c, selected, action+" applied to giveaway "+id+".", false)
}

// Sync 注文を同期
// @Summary 注文を同期
// @Tags admin
// @Param X-API-Key header string false "管理キー"
// @Success 303 {string} string "管理画面へリダイレクト"
// @Failure 401 {object} ErrorResponse
// @Router /admin/sync [post]
func (h *AdminHandler) Sync(c echo.Context) error {
	if err := h.adminService.Sync(c.Request().Context(), restmiddleware.AdminKey(c)); err != nil {
		return h.redirect(c, "", "Sync failed: "+err.Error(), true)
	}
	return h.redirect(c, "", "Orders synced.", false)
}

// ExportCSV 参加者一覧をCSVでダウンロード
// @Summary 参加者一覧をCSVでダウンロード
// @Tags admin
// @Produce text/csv
// @Param X-API-Key header string false "管理キー"
// @Param id path string true "ギブアウェイID"
// @Success 200 {string} string "CSV"
// @Failure 404 {object} ErrorResponse
// @Router /admin/giveaways/{id}/stats.csv [get]
func (h *AdminHandler) ExportCSV(c echo.Context) error {
	export, err := h.adminService.ExportStats(c.Request().Context(), restmiddleware.AdminKey(c), c.Param("id"))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", export.Data)
}

// redirect 結果を通知付きで管理画面へ返す
func (h *AdminHandler) redirect(c echo.Context, selected, notice string, bad bool) error {
	q := url.Values{}
	q.Set("admin_key", restmiddleware.AdminKey(c))
	if selected != "" {
		q.Set("selected", selected)
	}
	q.Set("notice", notice)
	if bad {
		q.Set("notice_bad", "1")
	}
	return c.Redirect(http.StatusSeeOther, "/admin?"+q.Encode())
}

// rejectedKey 上流が管理キーを拒否したかどうか
func rejectedKey(err error) bool {
	var sc reward.StatusCoder
	if !errors.As(err, &sc) {
		return false
	}
	return sc.HTTPStatus() == http.StatusUnauthorized || sc.HTTPStatus() == http.StatusForbidden
}
