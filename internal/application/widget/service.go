package widget

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"community-rewards/internal/domain/reward"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
)

// TicketFunc 請求可能なときにフォームへ埋め込むチケットを発行する
type TicketFunc func(ctx context.Context, userID, rewardID string) (string, error)

// WidgetApplicationService ウィジェットページの読み込みサービス
// エラーはGoのエラーとして返さず表示状態に変換する
type WidgetApplicationService struct {
	gateway   reward.Gateway
	threshold reward.ThresholdMode
	tickets   TicketFunc
	logger    *otelinfra.Logger
	metrics   *otelinfra.Metrics
	tracer    trace.Tracer
}

// NewWidgetApplicationService 新しいWidgetApplicationServiceを作成
func NewWidgetApplicationService(
	gateway reward.Gateway,
	threshold reward.ThresholdMode,
	tickets TicketFunc,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *WidgetApplicationService {
	return &WidgetApplicationService{
		gateway:   gateway,
		threshold: threshold,
		tickets:   tickets,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer("widget-service"),
	}
}

// Load トークンに対応するリワードを読み込み、表示状態を返す
// トークンがない場合は上流へリクエストしない
func (s *WidgetApplicationService) Load(ctx context.Context, rc RequestContext) ViewState {
	if rc.Token == "" {
		return ViewState{Landing: true}
	}
	state := s.Refresh(ctx, ViewState{}, rc.Token)
	if rc.ClaimError != "" {
		state = Reduce(state, Event{Kind: EventClaimFailed, Err: errors.New(rc.ClaimError)})
	}
	return state
}

// Refresh 直前の状態を引き継いで再取得する
// 一時的なエラーでは直前のデータを保持する
func (s *WidgetApplicationService) Refresh(ctx context.Context, prev ViewState, token string) ViewState {
	ctx, span := s.tracer.Start(ctx, "WidgetApplicationService.Refresh")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", token))

	state := Reduce(prev, Event{Kind: EventLoadStarted})

	raw, err := s.gateway.FetchUserRewards(ctx, token)
	if err != nil {
		s.logger.Error(ctx, "Failed to load rewards", err, map[string]interface{}{
			"user_id": token,
		})
		s.metrics.RecordRefresh(ctx, "widget", false)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		state = Reduce(state, Event{Kind: EventLoadFailed, Err: err})
		return Reduce(state, Event{Kind: EventLoadFinished})
	}

	vm := reward.Normalize(raw)
	if vm == nil {
		vm = &reward.ViewModel{Orders: []reward.Order{}, Rewards: []reward.PastReward{}}
	}
	decision := reward.Evaluate(vm, s.threshold)

	span.SetAttributes(
		attribute.String("claim_state", string(decision.State)),
		attribute.Bool("can_claim", decision.CanClaim),
	)
	s.metrics.RecordRefresh(ctx, "widget", true)

	state = Reduce(state, Event{Kind: EventLoadSucceeded, Data: vm, Decision: decision})
	state.ClaimTicket = s.issueTicket(ctx, vm, decision)

	span.SetStatus(otelcodes.Ok, "")
	return Reduce(state, Event{Kind: EventLoadFinished})
}

func (s *WidgetApplicationService) issueTicket(ctx context.Context, vm *reward.ViewModel, d reward.Decision) string {
	if s.tickets == nil || !d.CanClaim || vm.Giveaway == nil || vm.User == nil {
		return ""
	}
	token, err := s.tickets(ctx, vm.User.ID, vm.Giveaway.ID)
	if err != nil {
		s.logger.Warn(ctx, "Failed to issue claim ticket", map[string]interface{}{
			"user_id":   vm.User.ID,
			"reward_id": vm.Giveaway.ID,
			"error":     err.Error(),
		})
		return ""
	}
	return token
}
