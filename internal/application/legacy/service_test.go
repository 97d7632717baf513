package legacy

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"community-rewards/internal/domain/reward"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
)

// MockGateway モックリワードゲートウェイ
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

func floatPtr(v float64) *float64 { return &v }

func currentPayload() *reward.RawPayload {
	return &reward.RawPayload{
		Giveaway: &reward.RawGiveaway{ID: "1", Status: "active", PrizeName: "Rolex Datejust 41", PrizeMSRPUSD: floatPtr(20000)},
		Progress: &reward.RawProgress{DisplayPct: floatPtr(65.5)},
	}
}

func newTestService(t *testing.T, gw reward.Gateway, clock clockwork.Clock) *LegacyApplicationService {
	t.Helper()
	tracer := otel.Tracer("test")
	logger := otelinfra.NewLoggerWithWriter(tracer, &bytes.Buffer{})
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)
	return NewLegacyApplicationService(gw, time.Minute, clock, logger, metrics)
}

func TestLegacyApplicationService_Refresh(t *testing.T) {
	gw := new(MockGateway)
	gw.On("FetchCurrent", mock.Anything).Return(currentPayload(), nil).Once()
	gw.On("FetchCurrent", mock.Anything).Return(nil, errors.New("502 Bad Gateway: down")).Once()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))
	service := newTestService(t, gw, clock)

	var health []bool
	service.OnHealthChange(func(ok bool) { health = append(health, ok) })

	require.NoError(t, service.Refresh(context.Background()))
	assert.True(t, service.Healthy())

	cur, err := service.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rolex Datejust 41", cur.Data.Giveaway.PrizeName)
	assert.Equal(t, 65.5, cur.Data.DisplayPct())
	assert.Equal(t, clock.Now(), cur.FetchedAt)
	assert.Empty(t, cur.Error)

	// 失敗しても前回の値を保持する
	require.Error(t, service.Refresh(context.Background()))
	assert.False(t, service.Healthy())
	cur, err = service.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rolex Datejust 41", cur.Data.Giveaway.PrizeName)
	assert.Equal(t, "502 Bad Gateway: down", cur.Error)

	assert.Equal(t, []bool{true, false}, health)
	gw.AssertNumberOfCalls(t, "FetchCurrent", 2)
}

func TestLegacyApplicationService_Current_FetchesWhenEmpty(t *testing.T) {
	gw := new(MockGateway)
	gw.On("FetchCurrent", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	service := newTestService(t, gw, clockwork.NewFakeClock())
	_, err := service.Current(context.Background())
	assert.Error(t, err)
}

func TestLegacyApplicationService_StartStop(t *testing.T) {
	var calls atomic.Int32
	gw := new(MockGateway)
	gw.On("FetchCurrent", mock.Anything).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return(currentPayload(), nil)

	service := newTestService(t, gw, nil)
	require.NoError(t, service.Start(context.Background()))

	// 初回は即時実行される
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Eventually(t, service.Healthy, time.Second, 10*time.Millisecond)

	require.NoError(t, service.Stop())
	// 二度目の停止は何もしない
	require.NoError(t, service.Stop())
}

func TestLegacyApplicationService_Me(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockGateway)
		want      *MeResponse
		wantErr   bool
	}{
		{
			name: "正常系: full_nameにフォールバック",
			setupMock: func(gw *MockGateway) {
				gw.On("FetchMe", mock.Anything).Return(&reward.RawUser{FullName: "John Doe", Email: "john.doe@example.com", Entries: floatPtr(42.5)}, nil)
				gw.On("FetchMyOrders", mock.Anything).Return([]reward.Order{{ID: "1", ProductName: "Premium Trading Package", Entries: 10}}, nil)
			},
			want: &MeResponse{
				Name:    "John Doe",
				Email:   "john.doe@example.com",
				Entries: 42.5,
				Orders:  []reward.Order{{ID: "1", ProductName: "Premium Trading Package", Entries: 10}},
			},
		},
		{
			name: "正常系: 注文の失敗はエントリーを妨げない",
			setupMock: func(gw *MockGateway) {
				gw.On("FetchMe", mock.Anything).Return(&reward.RawUser{Name: "Jane"}, nil)
				gw.On("FetchMyOrders", mock.Anything).Return(nil, errors.New("500 Internal Server Error: boom"))
			},
			want: &MeResponse{Name: "Jane", Entries: 0, Orders: []reward.Order{}},
		},
		{
			name: "異常系: 未ログイン",
			setupMock: func(gw *MockGateway) {
				gw.On("FetchMe", mock.Anything).Return(nil, errors.New("401 Unauthorized: login required"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(MockGateway)
			tt.setupMock(gw)

			got, err := newTestService(t, gw, clockwork.NewFakeClock()).Me(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				gw.AssertNotCalled(t, "FetchMyOrders", mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgsToFields(t *testing.T) {
	assert.Nil(t, argsToFields(nil))
	assert.Equal(t, map[string]interface{}{"job": "x", "n": 1}, argsToFields([]any{"job", "x", "n", 1}))
	assert.Equal(t, map[string]interface{}{"dangling": nil}, argsToFields([]any{"dangling"}))
}
