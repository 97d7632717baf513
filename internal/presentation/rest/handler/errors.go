package handler

import (
	"fmt"
	"net/http"

	widgetapp "community-rewards/internal/application/widget"
	"community-rewards/internal/domain/reward"

	"github.com/labstack/echo/v4"
)

// stateError 読み込みに失敗した表示状態をAPI向けのエラーに戻す
func stateError(state widgetapp.ViewState) error {
	if state.NotFound {
		return fmt.Errorf("%w: %s", reward.ErrRewardNotFound, state.Error)
	}
	status := state.ErrorStatus
	if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	return echo.NewHTTPError(status, state.Error)
}
