package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	claimapp "community-rewards/internal/application/claim"
	widgetapp "community-rewards/internal/application/widget"
	"community-rewards/internal/domain/reward"
	"community-rewards/internal/infrastructure/persistence/memory"
	"community-rewards/internal/infrastructure/ticket"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
	restmiddleware "community-rewards/internal/presentation/rest/middleware"
	"community-rewards/internal/presentation/rest/view"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// MockGateway モック上流ゲートウェイ
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) FetchUserRewards(ctx context.Context, userID string) (*reward.RawPayload, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reward.RawPayload), args.Error(1)
}

func (m *MockGateway) FetchCurrent(ctx context.Context) (*reward.RawPayload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reward.RawPayload), args.Error(1)
}

func (m *MockGateway) FetchMe(ctx context.Context) (*reward.RawUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reward.RawUser), args.Error(1)
}

func (m *MockGateway) FetchMyOrders(ctx context.Context) ([]reward.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reward.Order), args.Error(1)
}

func (m *MockGateway) ClaimGiveaway(ctx context.Context, giveawayID string, payload reward.ClaimPayload) error {
	args := m.Called(ctx, giveawayID, payload)
	return args.Error(0)
}

// MockAdminGateway モック管理ゲートウェイ
type MockAdminGateway struct {
	mock.Mock
}

func (m *MockAdminGateway) ListGiveaways(ctx context.Context, adminKey string) ([]reward.AdminGiveaway, error) {
	args := m.Called(ctx, adminKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reward.AdminGiveaway), args.Error(1)
}

func (m *MockAdminGateway) GiveawayStats(ctx context.Context, adminKey, giveawayID string, limit int) (*reward.GiveawayStats, error) {
	args := m.Called(ctx, adminKey, giveawayID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reward.GiveawayStats), args.Error(1)
}

func (m *MockAdminGateway) CreateGiveaway(ctx context.Context, adminKey string, fields map[string]interface{}) (*reward.CreatedGiveaway, error) {
	args := m.Called(ctx, adminKey, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reward.CreatedGiveaway), args.Error(1)
}

func (m *MockAdminGateway) RunAction(ctx context.Context, adminKey, giveawayID string, action reward.AdminAction) error {
	args := m.Called(ctx, adminKey, giveawayID, action)
	return args.Error(0)
}

func (m *MockAdminGateway) SyncOrders(ctx context.Context, adminKey string) error {
	args := m.Called(ctx, adminKey)
	return args.Error(0)
}

// upstreamError HTTPステータスを持つテスト用エラー
type upstreamError struct {
	code int
}

func (e *upstreamError) Error() string   { return fmt.Sprintf("%d %s", e.code, http.StatusText(e.code)) }
func (e *upstreamError) HTTPStatus() int { return e.code }
func (e *upstreamError) Is(target error) bool {
	return target == reward.ErrRewardNotFound && (e.code == http.StatusNotFound || e.code == http.StatusUnprocessableEntity)
}

func floatPtr(v float64) *float64 { return &v }

func claimablePayload() *reward.RawPayload {
	canClaim := true
	return &reward.RawPayload{
		Reward:   &reward.RawReward{RewardID: "fXHVo5uRLaEPsdNnjgSq", Status: "active", RewardName: "Rolex Datejust 41"},
		Progress: &reward.RawProgress{DisplayPct: floatPtr(105.5)},
		User:     &reward.RawUser{UserID: "9999999999", Name: "Test User"},
		UI:       &reward.RawUIHints{CanClaim: &canClaim},
	}
}

// testDeps ハンドラーテストの共通依存
type testDeps struct {
	logger  *otelinfra.Logger
	metrics *otelinfra.Metrics
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()
	tracer := noop.NewTracerProvider().Tracer("test")
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)
	return testDeps{
		logger:  otelinfra.NewLogger(tracer),
		metrics: metrics,
	}
}

// newTestEcho レンダラーとエラーハンドリングミドルウェアを設定したEcho
func newTestEcho(t *testing.T, deps testDeps) *echo.Echo {
	t.Helper()
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.Use(restmiddleware.ErrorHandlerMiddleware(deps.logger))
	e.Use(restmiddleware.RequestContextMiddleware())
	return e
}

// newTestServices 実際のチケット発行と台帳を使うアプリケーションサービス
func newTestServices(t *testing.T, deps testDeps, gw reward.Gateway) (*widgetapp.WidgetApplicationService, *claimapp.ClaimApplicationService) {
	t.Helper()
	issuer := ticket.NewIssuer("test-secret", "community-rewards", 15*time.Minute)
	claimService := claimapp.NewClaimApplicationService(gw, memory.NewClaimAttemptRepository(), issuer, deps.logger, deps.metrics)
	tickets := func(ctx context.Context, userID, rewardID string) (string, error) {
		resp, err := claimService.IssueTicket(ctx, userID, rewardID)
		if err != nil {
			return "", err
		}
		return resp.Token, nil
	}
	widgetService := widgetapp.NewWidgetApplicationService(gw, reward.ThresholdReach, tickets, deps.logger, deps.metrics)
	return widgetService, claimService
}
