package claim

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"community-rewards/internal/domain/claim"
	"community-rewards/internal/domain/reward"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
)

// ClaimApplicationService 請求アプリケーションサービス
type ClaimApplicationService struct {
	gateway  reward.Gateway
	attempts claim.AttemptRepository
	tickets  claim.TicketIssuer
	inflight *inflight
	logger   *otelinfra.Logger
	metrics  *otelinfra.Metrics
	tracer   trace.Tracer
}

// NewClaimApplicationService 新しいClaimApplicationServiceを作成
func NewClaimApplicationService(
	gateway reward.Gateway,
	attempts claim.AttemptRepository,
	tickets claim.TicketIssuer,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *ClaimApplicationService {
	return &ClaimApplicationService{
		gateway:  gateway,
		attempts: attempts,
		tickets:  tickets,
		inflight: newInflight(),
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer("claim-service"),
	}
}

// IssueTicket 請求フォームに埋め込むチケットを発行する
func (s *ClaimApplicationService) IssueTicket(ctx context.Context, userID, rewardID string) (*IssueTicketResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ClaimApplicationService.IssueTicket")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("reward_id", rewardID),
	)

	t, err := s.tickets.Issue(userID, rewardID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	return &IssueTicketResponse{
		TicketID:  t.ID,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
	}, nil
}

// InProgress 指定のユーザー・リワードの請求が処理中かどうかを返す
func (s *ClaimApplicationService) InProgress(userID, rewardID string) bool {
	return s.inflight.active(inflightKey(userID, rewardID))
}

// Claim リワードを請求する
// 上流へのPUTは一度だけ送信し、失敗しても再試行しない
func (s *ClaimApplicationService) Claim(ctx context.Context, req *ClaimRequest) (*ClaimResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ClaimApplicationService.Claim")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("reward_id", req.RewardID),
	)

	// 前提条件: 送信せず、画面にもエラーを出さない
	if req.UserID == "" || req.RewardID == "" {
		s.logger.Warn(ctx, "Claim precondition failed", map[string]interface{}{
			"user_id":   req.UserID,
			"reward_id": req.RewardID,
		})
		s.metrics.RecordClaim(ctx, "precondition_failed")
		span.SetStatus(otelcodes.Error, claim.ErrPreconditionFailed.Error())
		return nil, claim.ErrPreconditionFailed
	}

	ticketID, err := s.tickets.Verify(req.Ticket, req.UserID, req.RewardID)
	if err != nil {
		s.logger.Warn(ctx, "Claim ticket rejected", map[string]interface{}{
			"user_id":   req.UserID,
			"reward_id": req.RewardID,
			"error":     err.Error(),
		})
		s.metrics.RecordClaim(ctx, "invalid_ticket")
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("ticket_id", ticketID))

	key := inflightKey(req.UserID, req.RewardID)
	if !s.inflight.acquire(key) {
		s.metrics.RecordClaim(ctx, "in_progress")
		span.SetStatus(otelcodes.Error, claim.ErrClaimInProgress.Error())
		return nil, claim.ErrClaimInProgress
	}
	defer s.inflight.release(key)

	// 台帳の確認
	existing, err := s.attempts.FindByTicketID(ctx, ticketID)
	switch {
	case err == nil:
		return s.replay(ctx, span, existing)
	case !errors.Is(err, claim.ErrAttemptNotFound):
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find claim attempt: %w", err)
	}

	attempt, err := claim.NewAttempt(ticketID, req.UserID, req.RewardID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, claim.ErrDuplicateTicket) {
			// 別インスタンスが同じチケットを処理中
			s.metrics.RecordClaim(ctx, "in_progress")
			span.SetStatus(otelcodes.Error, claim.ErrClaimInProgress.Error())
			return nil, claim.ErrClaimInProgress
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to record claim attempt: %w", err)
	}

	s.logger.Info(ctx, "Claiming reward", map[string]interface{}{
		"user_id":   req.UserID,
		"reward_id": req.RewardID,
		"ticket_id": ticketID,
	})

	payload := reward.ClaimPayload{
		Locked:           true,
		ModifiedByUserID: req.UserID,
		ModifiedByEmail:  req.Email,
		ModifiedByName:   req.Name,
	}
	if err := s.gateway.ClaimGiveaway(ctx, req.RewardID, payload); err != nil {
		attempt.MarkFailed(err.Error())
		if uerr := s.attempts.Update(ctx, attempt); uerr != nil {
			s.logger.Error(ctx, "Failed to record failed claim attempt", uerr, map[string]interface{}{
				"ticket_id": ticketID,
			})
		}
		s.logger.Error(ctx, "Claim failed", err, map[string]interface{}{
			"user_id":   req.UserID,
			"reward_id": req.RewardID,
			"ticket_id": ticketID,
		})
		s.metrics.RecordClaim(ctx, "failed")
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	attempt.MarkSucceeded()
	if err := s.attempts.Update(ctx, attempt); err != nil {
		// 上流では成功しているため呼び出し側には成功を返す
		s.logger.Error(ctx, "Failed to record successful claim attempt", err, map[string]interface{}{
			"ticket_id": ticketID,
		})
	}

	s.logger.Info(ctx, "Reward claimed", map[string]interface{}{
		"user_id":   req.UserID,
		"reward_id": req.RewardID,
		"ticket_id": ticketID,
	})
	s.metrics.RecordClaim(ctx, "succeeded")
	span.SetStatus(otelcodes.Ok, "reward claimed")

	return &ClaimResponse{TicketID: ticketID}, nil
}

// replay 既に記録されているチケットへの応答
func (s *ClaimApplicationService) replay(ctx context.Context, span trace.Span, a *claim.Attempt) (*ClaimResponse, error) {
	switch a.Status() {
	case claim.AttemptStatusSucceeded:
		s.logger.Info(ctx, "Claim ticket already succeeded", map[string]interface{}{
			"ticket_id": a.TicketID(),
		})
		s.metrics.RecordClaim(ctx, "replayed")
		span.SetStatus(otelcodes.Ok, "claim replayed")
		return &ClaimResponse{TicketID: a.TicketID(), Replayed: true}, nil
	case claim.AttemptStatusPending:
		s.metrics.RecordClaim(ctx, "in_progress")
		span.SetStatus(otelcodes.Error, claim.ErrClaimInProgress.Error())
		return nil, claim.ErrClaimInProgress
	default:
		// 失敗したチケットは再利用できない。再取得で新しいチケットが発行される
		s.metrics.RecordClaim(ctx, "duplicate_ticket")
		span.SetStatus(otelcodes.Error, claim.ErrDuplicateTicket.Error())
		return nil, claim.ErrDuplicateTicket
	}
}
