package rewardsapi

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"community-rewards/internal/domain/reward"
)

// FixtureGateway 特定のトークンに対して固定のペイロードを返すGatewayデコレーター
// 「進捗100%超・請求可能」の状態を上流なしで確認するために使う
type FixtureGateway struct {
	reward.Gateway
	token string
	delay time.Duration
	clock clockwork.Clock
}

// NewFixtureGateway 新しいFixtureGatewayを作成
func NewFixtureGateway(next reward.Gateway, token string, delay time.Duration, clock clockwork.Clock) *FixtureGateway {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FixtureGateway{
		Gateway: next,
		token:   token,
		delay:   delay,
		clock:   clock,
	}
}

// FetchUserRewards トークンが一致すれば遅延後にフィクスチャを返す
func (g *FixtureGateway) FetchUserRewards(ctx context.Context, userID string) (*reward.RawPayload, error) {
	if userID != g.token {
		return g.Gateway.FetchUserRewards(ctx, userID)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.clock.After(g.delay):
	}
	return FinishedPayload(), nil
}

// ClaimGiveaway フィクスチャのリワードへの請求は上流へ送らない
func (g *FixtureGateway) ClaimGiveaway(ctx context.Context, giveawayID string, payload reward.ClaimPayload) error {
	if giveawayID == fixtureRewardID {
		return nil
	}
	return g.Gateway.ClaimGiveaway(ctx, giveawayID, payload)
}

const fixtureRewardID = "fXHVo5uRLaEPsdNnjgSq"

// FinishedPayload 達成済みリワードのフィクスチャ
func FinishedPayload() *reward.RawPayload {
	f := func(v float64) *float64 { return &v }
	canClaim := true
	return &reward.RawPayload{
		Reward: &reward.RawReward{
			RewardID:          fixtureRewardID,
			Status:            "active",
			RewardName:        "Rolex Datejust 41",
			RewardDescription: "Win a stunning Rolex Datejust 41 watch! Participate in our community rewards program by making eligible purchases.",
			RewardImage:       "https://res.cloudinary.com/dmkzxsw0i/image/upload/v1770323925/dfasa_xwwkog.png",
			ValueUSD:          f(20921.93),
			ValueTickets:      f(243000),
			StartAt:           "2024-01-01T00:00:00Z",
			UnlockedMessage:   "Prize is still open! You can still win this prize.",
			Locked:            false,
		},
		Progress: &reward.RawProgress{
			DisplayPct:     f(105.5),
			CurrentTickets: f(256500),
			UserTickets:    f(256500),
		},
		User: &reward.RawUser{
			UserID:  "9999999999",
			Name:    "Test User",
			Email:   "test@example.com",
			Entries: f(256500),
		},
		UI: &reward.RawUIHints{
			CanClaim:      &canClaim,
			ClaimState:    "available",
			TicketsNeeded: f(0),
			ProgressText:  "Prize unlocked!",
		},
		Orders: []reward.Order{},
		Rewards: []reward.PastReward{
			{
				ID:            "2",
				PrizeName:     "Omega Seamaster",
				PrizeImage:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400",
				WinnerDisplay: "user***@example.com",
				UnlockedAt:    "2023-12-15T10:30:00Z",
			},
			{
				ID:            "3",
				PrizeName:     "Apple Watch Ultra",
				PrizeImage:    "https://images.unsplash.com/photo-1551816230-ef5deaed4a26?w=400",
				WinnerDisplay: "winner***@example.com",
				UnlockedAt:    "2023-11-20T14:15:00Z",
			},
		},
	}
}
