package rest

import (
	"context"
	"net/http"

	adminapp "community-rewards/internal/application/admin"
	claimapp "community-rewards/internal/application/claim"
	legacyapp "community-rewards/internal/application/legacy"
	widgetapp "community-rewards/internal/application/widget"
	"community-rewards/internal/domain/embed"
	"community-rewards/internal/infrastructure/config"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
	"community-rewards/internal/presentation/rest/handler"
	restmiddleware "community-rewards/internal/presentation/rest/middleware"
	"community-rewards/internal/presentation/rest/view"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Services ルーターが使うアプリケーションサービス
type Services struct {
	Widget *widgetapp.WidgetApplicationService
	Claim  *claimapp.ClaimApplicationService
	Admin  *adminapp.AdminApplicationService
	// Legacy 旧エンドポイントを無効にしている場合はnil
	Legacy *legacyapp.LegacyApplicationService
}

// Router REST APIルーター
type Router struct {
	echo           *echo.Echo
	widgetHandler  *handler.WidgetHandler
	rewardsHandler *handler.RewardsHandler
	embedHandler   *handler.EmbedHandler
	adminHandler   *handler.AdminHandler
	legacyHandler  *handler.LegacyHandler
	healthHandler  *handler.HealthHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	renderer *view.Renderer,
	services Services,
) (*Router, error) {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	// Echoのデフォルトエラーハンドラーを無効化（カスタムエラーハンドラーを使用）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// エラーハンドリングミドルウェアで処理される
	}

	setupMiddleware(e, cfg, logger, metrics)

	r := &Router{
		echo:           e,
		widgetHandler:  handler.NewWidgetHandler(services.Widget, services.Claim),
		rewardsHandler: handler.NewRewardsHandler(services.Widget, services.Claim),
		embedHandler: handler.NewEmbedHandler(
			renderer,
			embed.NewOriginPolicy(cfg.Embed.AllowedOrigins),
			cfg.Embed.WidgetURL,
			logger,
			metrics,
		),
		adminHandler:  handler.NewAdminHandler(services.Admin),
		healthHandler: handler.NewHealthHandler(services.Legacy),
	}
	if services.Legacy != nil {
		r.legacyHandler = handler.NewLegacyHandler(services.Legacy)
	}

	r.setupRoutes(cfg, logger)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return r, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	e.Use(middleware.Recover())

	// CORS設定（JSON APIを埋め込み元から呼べるようにする）
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Embed.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-API-Key"},
	}))

	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(restmiddleware.SecurityHeadersMiddleware(&cfg.Embed))
	e.Use(restmiddleware.TracingMiddleware())
	e.Use(restmiddleware.LoggingMiddleware(logger))
	e.Use(restmiddleware.MetricsMiddleware(metrics))
	e.Use(restmiddleware.RequestContextMiddleware())

	// エラーハンドリングミドルウェア（最も内側）
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func (r *Router) setupRoutes(cfg *config.Config, logger *otelinfra.Logger) {
	e := r.echo

	// ウィジェット
	e.GET("/", r.widgetHandler.Page)
	e.GET("/embed/community", r.widgetHandler.Page)
	e.GET("/widget/fragment", r.widgetHandler.Fragment)
	e.POST("/claim", r.widgetHandler.Claim)

	// iframe向けJSON API
	api := e.Group("/api/iframe")
	api.GET("/rewards/:user_id", r.rewardsHandler.GetRewards)
	api.POST("/rewards/:user_id/claim", r.rewardsHandler.PostClaim)

	// 高さ同期
	e.GET("/embed/bridge.js", r.embedHandler.BridgeJS)
	e.GET("/embed/host.js", r.embedHandler.HostJS)
	e.GET("/embed/example", r.embedHandler.Example)
	e.POST("/embed/report", r.embedHandler.Report)

	// 管理画面（APIキー認証）
	admin := e.Group("/admin", restmiddleware.APIKeyMiddleware(&cfg.Admin, logger))
	admin.GET("", r.adminHandler.Dashboard)
	admin.POST("/giveaways", r.adminHandler.Create)
	admin.POST("/giveaways/:id/:action", r.adminHandler.Act)
	admin.POST("/sync", r.adminHandler.Sync)
	admin.GET("/giveaways/:id/stats.csv", r.adminHandler.ExportCSV)

	// 旧エンドポイント
	if r.legacyHandler != nil {
		legacy := e.Group("/api/legacy")
		legacy.GET("/current", r.legacyHandler.Current)
		legacy.GET("/me", r.legacyHandler.Me)
	}

	// ヘルスチェック（認証不要）
	e.GET("/health", r.healthHandler.Health)
}

// ServeHTTP http.Handlerとしてリクエストを処理
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.echo.ServeHTTP(w, req)
}

// Start サーバーを起動
func (r *Router) Start(cfg *config.ServerConfig, address string) error {
	r.echo.Server.ReadTimeout = cfg.ReadTimeout
	r.echo.Server.WriteTimeout = cfg.WriteTimeout
	r.echo.Server.IdleTimeout = cfg.IdleTimeout
	return r.echo.Start(address)
}

// Shutdown 処理中のリクエストを待ってサーバーを停止
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
