package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"community-rewards/internal/domain/embed"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
	"community-rewards/internal/presentation/rest/view"

	"github.com/labstack/echo/v4"
)

// maxReportBytes 報告ボディの上限
const maxReportBytes = 4 << 10

// EmbedHandler iframe埋め込み用スクリプトのハンドラー
type EmbedHandler struct {
	renderer  *view.Renderer
	script    view.EmbedScript
	receiver  *embed.Receiver
	widgetURL string
	logger    *otelinfra.Logger
	metrics   *otelinfra.Metrics
}

// NewEmbedHandler 新しいEmbedHandlerを作成
func NewEmbedHandler(
	renderer *view.Renderer,
	policy embed.OriginPolicy,
	widgetURL string,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *EmbedHandler {
	return &EmbedHandler{
		renderer:  renderer,
		script:    view.NewEmbedScript(policy),
		receiver:  embed.NewReceiver(policy, nil),
		widgetURL: widgetURL,
		logger:    logger,
		metrics:   metrics,
	}
}

// BridgeJS 埋め込み側の高さ通知スクリプト
func (h *EmbedHandler) BridgeJS(c echo.Context) error {
	return h.serveScript(c, view.BridgeScript)
}

// HostJS ホスト側の受信スクリプト
func (h *EmbedHandler) HostJS(c echo.Context) error {
	return h.serveScript(c, view.HostScript)
}

func (h *EmbedHandler) serveScript(c echo.Context, name string) error {
	var buf bytes.Buffer
	if err := h.renderer.Script(&buf, name, h.script); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return c.Blob(http.StatusOK, "application/javascript; charset=utf-8", buf.Bytes())
}

// Example ホストページの埋め込み例
func (h *EmbedHandler) Example(c echo.Context) error {
	strategy := c.QueryParam("strategy")
	if strategy != "direct" {
		strategy = "state"
	}
	return c.Render(http.StatusOK, view.EmbedExampleTemplate, view.EmbedExamplePage{
		WidgetURL:     h.widgetURL,
		HostScriptURL: "/embed/host.js",
		Strategy:      strategy,
		Script:        h.script,
	})
}

// resizeReport ホストが拒否したメッセージの報告
type resizeReport struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

// Report ホスト側で拒否したリサイズメッセージを分類して記録する
func (h *EmbedHandler) Report(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxReportBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read report")
	}
	var report resizeReport
	if err := json.Unmarshal(body, &report); err != nil {
		h.metrics.RecordResizeMessage(ctx, "malformed")
		return c.NoContent(http.StatusNoContent)
	}

	_, err = h.receiver.Classify(report.Origin, report.Data)
	result := resizeResult(err)
	h.metrics.RecordResizeMessage(ctx, result)
	if result == "rejected_origin" {
		h.logger.Warn(ctx, "Resize message rejected by origin policy", map[string]interface{}{
			"origin": report.Origin,
		})
	}
	return c.NoContent(http.StatusNoContent)
}

func resizeResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, embed.ErrOriginNotAllowed):
		return "rejected_origin"
	case errors.Is(err, embed.ErrNotResizeMessage):
		return "ignored"
	default:
		return "malformed"
	}
}
