package legacy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"community-rewards/internal/domain/reward"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
)

// DefaultPollInterval /currentの更新間隔
const DefaultPollInterval = 60 * time.Second

// LegacyApplicationService 旧エンドポイントのサービス
// /currentは定期的に取得してキャッシュし、/meはリクエストごとに取得する
type LegacyApplicationService struct {
	gateway  reward.Gateway
	interval time.Duration
	clock    clockwork.Clock
	logger   *otelinfra.Logger
	metrics  *otelinfra.Metrics
	tracer   trace.Tracer

	mu        sync.RWMutex
	current   *reward.ViewModel
	fetchedAt time.Time
	lastErr   error
	listeners []func(healthy bool)

	scheduler gocron.Scheduler
}

// NewLegacyApplicationService 新しいLegacyApplicationServiceを作成
func NewLegacyApplicationService(
	gateway reward.Gateway,
	interval time.Duration,
	clock clockwork.Clock,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *LegacyApplicationService {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LegacyApplicationService{
		gateway:  gateway,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer("legacy-service"),
	}
}

// OnHealthChange 更新結果の通知先を登録する
func (s *LegacyApplicationService) OnHealthChange(fn func(healthy bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Start 定期更新を開始する（初回は即時実行）
func (s *LegacyApplicationService) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler(
		gocron.WithClock(s.clock),
		gocron.WithLogger(&schedulerLogger{logger: s.logger}),
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			_ = s.Refresh(ctx)
		}),
		gocron.WithName("legacy-current-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule current refresh: %w", err)
	}

	s.mu.Lock()
	s.scheduler = sched
	s.mu.Unlock()

	sched.Start()
	s.logger.Info(ctx, "Legacy current refresh started", map[string]interface{}{
		"interval": s.interval.String(),
	})
	return nil
}

// Stop 定期更新を停止する
func (s *LegacyApplicationService) Stop() error {
	s.mu.Lock()
	sched := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	if sched == nil {
		return nil
	}
	return sched.Shutdown()
}

// Refresh /currentを取得してキャッシュを更新する
// 失敗した場合は前回の値を保持する
func (s *LegacyApplicationService) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "LegacyApplicationService.Refresh")
	defer span.End()

	raw, err := s.gateway.FetchCurrent(ctx)
	if err != nil {
		s.logger.Error(ctx, "Failed to refresh current giveaway", err, nil)
		s.metrics.RecordRefresh(ctx, "legacy_current", false)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.setResult(nil, err)
		return err
	}

	vm := reward.Normalize(raw)
	if vm == nil {
		vm = &reward.ViewModel{Orders: []reward.Order{}, Rewards: []reward.PastReward{}}
	}
	s.metrics.RecordRefresh(ctx, "legacy_current", true)
	span.SetAttributes(attribute.Bool("has_giveaway", vm.Giveaway != nil))
	s.setResult(vm, nil)
	return nil
}

func (s *LegacyApplicationService) setResult(vm *reward.ViewModel, err error) {
	s.mu.Lock()
	if err == nil {
		s.current = vm
		s.fetchedAt = s.clock.Now()
	}
	s.lastErr = err
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(err == nil)
	}
}

// Current キャッシュ済みの/currentを返す（未取得なら取得する）
func (s *LegacyApplicationService) Current(ctx context.Context) (*CurrentResponse, error) {
	s.mu.RLock()
	cached := s.current
	s.mu.RUnlock()

	if cached == nil {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := &CurrentResponse{Data: s.current, FetchedAt: s.fetchedAt}
	if s.lastErr != nil {
		resp.Error = s.lastErr.Error()
	}
	return resp, nil
}

// Healthy 直近の更新が成功したかどうかを返す
func (s *LegacyApplicationService) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr == nil && s.current != nil
}

// Me ログインユーザーと注文を取得する
func (s *LegacyApplicationService) Me(ctx context.Context) (*MeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LegacyApplicationService.Me")
	defer span.End()

	me, err := s.gateway.FetchMe(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	resp := &MeResponse{
		Email:  me.Email,
		Orders: []reward.Order{},
	}
	resp.Name = me.Name
	if resp.Name == "" {
		resp.Name = me.FullName
	}
	if me.Entries != nil {
		resp.Entries = *me.Entries
	}

	orders, err := s.gateway.FetchMyOrders(ctx)
	if err != nil {
		// 注文が取れなくてもエントリー数は返す
		s.logger.Warn(ctx, "Failed to load orders", map[string]interface{}{
			"error": err.Error(),
		})
		return resp, nil
	}
	resp.Orders = orders
	return resp, nil
}
