package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"community-rewards/internal/infrastructure/config"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
	"community-rewards/internal/presentation/grpc/interceptor"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// LegacyServiceName /currentの定期更新の状態を表すヘルスチェックのサービス名
const LegacyServiceName = "community_rewards.LegacyCurrent"

// HealthSource 上流の状態変化を通知するもの
type HealthSource interface {
	OnHealthChange(fn func(healthy bool))
}

// Server gRPCサーバー
type Server struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	port     int
	logger   *otelinfra.Logger
}

// NewServer 新しいgRPCサーバーを作成
// 旧エンドポイントを無効にしている場合はlegacyにnilを渡す
func NewServer(cfg *config.Config, logger *otelinfra.Logger, legacy HealthSource) (*Server, error) {
	port := cfg.Server.GRPCPort
	address := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	return NewServerWithListener(cfg, logger, legacy, listener, port)
}

// NewServerWithListener リスナーを指定してgRPCサーバーを作成（テスト用）
func NewServerWithListener(
	cfg *config.Config,
	logger *otelinfra.Logger,
	legacy HealthSource,
	listener net.Listener,
	port int,
) (*Server, error) {
	opts := []grpc.ServerOption{
		grpc.UnaryInterceptor(interceptor.LoggingInterceptor(logger)),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     15 * time.Second,
			MaxConnectionAge:      30 * time.Second,
			MaxConnectionAgeGrace: 5 * time.Second,
			Time:                  5 * time.Second,
			Timeout:               1 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	}

	grpcServer := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	if legacy != nil {
		// 初回の取得が終わるまではNOT_SERVING
		healthServer.SetServingStatus(LegacyServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		legacy.OnHealthChange(func(healthy bool) {
			st := healthpb.HealthCheckResponse_NOT_SERVING
			if healthy {
				st = healthpb.HealthCheckResponse_SERVING
			}
			healthServer.SetServingStatus(LegacyServiceName, st)
		})
	}
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// リフレクションを有効化（開発環境用）
	if cfg.IsDevelopment() {
		reflection.Register(grpcServer)
	}

	return &Server{
		server:   grpcServer,
		health:   healthServer,
		listener: listener,
		port:     port,
		logger:   logger,
	}, nil
}

// Start サーバーを起動
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "gRPC server starting", map[string]interface{}{
		"port": s.port,
	})
	if err := s.server.Serve(s.listener); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop サーバーを停止
func (s *Server) Stop(ctx context.Context) error {
	// 停止中であることをクライアントに知らせる
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.logger.Info(ctx, "gRPC server stopped", nil)
		return nil
	case <-ctx.Done():
		s.logger.Warn(ctx, "gRPC server shutdown timeout, forcing stop", nil)
		s.server.Stop()
		return ctx.Err()
	}
}

// Port サーバーのポート番号を返す
func (s *Server) Port() int {
	return s.port
}
