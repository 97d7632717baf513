package handler

import (
	"time"

	"community-rewards/internal/domain/reward"
	restmiddleware "community-rewards/internal/presentation/rest/middleware"
)

// ErrorResponse エラーレスポンス
type ErrorResponse = restmiddleware.ErrorResponse

// DecisionResponse 請求可否の判定
// @Description 請求可否の判定
type DecisionResponse struct {
	CanClaim       bool   `json:"can_claim" example:"true"`
	State          string `json:"state" example:"available" enums:"available,already_claimed,in_progress,not_started,unavailable,no_user,no_reward"`
	Reason         string `json:"reason,omitempty" example:"Claims are paused"`
	ServerOverride bool   `json:"server_override" example:"false"`
}

// RewardsResponse 正規化済みのリワード表示モデル
// @Description 正規化済みのリワード表示モデル
type RewardsResponse struct {
	Data        *reward.ViewModel `json:"data"`
	Decision    DecisionResponse  `json:"decision"`
	BarWidth    float64           `json:"bar_width" example:"65.5"`
	ClaimTicket string            `json:"claim_ticket,omitempty"`
}

// ClaimRequestBody 請求リクエスト
// @Description 請求リクエスト
type ClaimRequestBody struct {
	Ticket   string `json:"ticket"`
	RewardID string `json:"reward_id" example:"fXHVo5uRLaEPsdNnjgSq"`
	Email    string `json:"email" example:"test@example.com"`
	Name     string `json:"name" example:"Test User"`
}

// ClaimResponseBody 請求レスポンス
// @Description 請求レスポンス
type ClaimResponseBody struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status" example:"claimed"`
	Replayed bool   `json:"replayed" example:"false"`
}

// HealthResponse ヘルスチェックレスポンス
// @Description ヘルスチェックレスポンス
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newDecisionResponse(d reward.Decision) DecisionResponse {
	return DecisionResponse{
		CanClaim:       d.CanClaim,
		State:          string(d.State),
		Reason:         d.Reason,
		ServerOverride: d.ServerOverride,
	}
}
