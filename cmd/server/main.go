package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapp "community-rewards/internal/application/admin"
	claimapp "community-rewards/internal/application/claim"
	legacyapp "community-rewards/internal/application/legacy"
	widgetapp "community-rewards/internal/application/widget"
	"community-rewards/internal/domain/claim"
	"community-rewards/internal/domain/reward"
	"community-rewards/internal/infrastructure/config"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
	"community-rewards/internal/infrastructure/persistence/memory"
	"community-rewards/internal/infrastructure/persistence/mysql"
	"community-rewards/internal/infrastructure/rewardsapi"
	"community-rewards/internal/infrastructure/ticket"
	grpcserver "community-rewards/internal/presentation/grpc"
	"community-rewards/internal/presentation/rest"
	"community-rewards/internal/presentation/rest/view"

	"github.com/jonboulle/clockwork"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer(cfg.OpenTelemetry.ServiceName)
	logger := otelinfra.NewLogger(tracer)
	if !cfg.IsDevelopment() {
		logger.SetLevel(otelinfra.LogLevelInfo)
	}
	metrics, err := otelinfra.NewMetrics(cfg.OpenTelemetry.ServiceName)
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 上流APIクライアントの初期化
	client := rewardsapi.NewClient(&cfg.RewardsAPI, logger, metrics)
	var gateway reward.Gateway = client
	if cfg.Fixture.Enabled {
		gateway = rewardsapi.NewFixtureGateway(client, cfg.Fixture.Token, cfg.Fixture.Delay, clockwork.NewRealClock())
		logger.Info(ctx, "Fixture token enabled", map[string]interface{}{
			"delay": cfg.Fixture.Delay.String(),
		})
	}

	// 請求台帳の初期化
	var attempts claim.AttemptRepository
	switch cfg.Claim.Ledger {
	case "mysql":
		db, err := mysql.NewDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare claim ledger schema: %v", err)
		}
		attempts = mysql.NewClaimAttemptRepository(db)
	default:
		attempts = memory.NewClaimAttemptRepository()
	}

	threshold, err := reward.NewThresholdMode(cfg.Claim.ThresholdMode)
	if err != nil {
		log.Fatalf("Invalid threshold mode: %v", err)
	}
	logger.Info(ctx, "Claim threshold mode", map[string]interface{}{
		"mode": string(threshold),
	})

	// アプリケーションサービスの初期化
	issuer := ticket.NewIssuer(cfg.Claim.TicketSecret, cfg.Claim.TicketIssuer, cfg.Claim.TicketTTL)
	claimService := claimapp.NewClaimApplicationService(gateway, attempts, issuer, logger, metrics)

	tickets := func(ctx context.Context, userID, rewardID string) (string, error) {
		resp, err := claimService.IssueTicket(ctx, userID, rewardID)
		if err != nil {
			return "", err
		}
		return resp.Token, nil
	}
	widgetService := widgetapp.NewWidgetApplicationService(gateway, threshold, tickets, logger, metrics)
	adminService := adminapp.NewAdminApplicationService(client, cfg.Admin.StatsLimit, logger, metrics)

	services := rest.Services{
		Widget: widgetService,
		Claim:  claimService,
		Admin:  adminService,
	}
	var healthSource grpcserver.HealthSource
	var legacyService *legacyapp.LegacyApplicationService
	if cfg.Legacy.Enabled {
		legacyService = legacyapp.NewLegacyApplicationService(gateway, cfg.Legacy.PollInterval, clockwork.NewRealClock(), logger, metrics)
		services.Legacy = legacyService
		healthSource = legacyService
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// REST APIルーターの初期化
	router, err := rest.NewRouter(cfg, logger, metrics, renderer, services)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// gRPCサーバーの初期化
	grpcSrv, err := grpcserver.NewServer(cfg, logger, healthSource)
	if err != nil {
		log.Fatalf("Failed to create gRPC server: %v", err)
	}

	// gRPCのヘルス通知を登録してから定期更新を開始する
	if legacyService != nil {
		if err := legacyService.Start(ctx); err != nil {
			log.Fatalf("Failed to start legacy refresh: %v", err)
		}
		defer func() {
			if err := legacyService.Stop(); err != nil {
				log.Printf("Failed to stop legacy refresh: %v", err)
			}
		}()
	}

	address := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		logger.Info(ctx, "REST API server starting", map[string]interface{}{
			"address": address,
		})
		if err := router.Start(&cfg.Server, address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "REST API server error", err, nil)
			stop()
		}
	}()

	go func() {
		if err := grpcSrv.Start(); err != nil {
			logger.Error(ctx, "gRPC server error", err, nil)
			stop()
		}
	}()

	// シグナルを待機
	<-ctx.Done()
	logger.Info(context.Background(), "Shutting down servers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Error shutting down REST API server", err, nil)
	}
	if err := grpcSrv.Stop(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Error shutting down gRPC server", err, nil)
	}

	logger.Info(context.Background(), "Servers stopped", nil)
}
