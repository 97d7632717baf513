package reward

import "context"

// ClaimPayload 請求リクエストのボディ
type ClaimPayload struct {
	Locked           bool   `json:"locked"`
	ModifiedByUserID string `json:"modifiedByUserId"`
	ModifiedByEmail  string `json:"modifiedByEmail"`
	ModifiedByName   string `json:"modifiedByName"`
}

// Gateway リワードAPIへのポート
type Gateway interface {
	// FetchUserRewards GET /rewards/{userId}
	FetchUserRewards(ctx context.Context, userID string) (*RawPayload, error)

	// FetchCurrent 旧エンドポイント GET /current
	FetchCurrent(ctx context.Context) (*RawPayload, error)

	// FetchMe 旧エンドポイント GET /me
	FetchMe(ctx context.Context) (*RawUser, error)

	// FetchMyOrders 旧エンドポイント GET /me/orders
	FetchMyOrders(ctx context.Context) ([]Order, error)

	// ClaimGiveaway PUT /rewards/giveaways/{giveawayId}
	ClaimGiveaway(ctx context.Context, giveawayID string, payload ClaimPayload) error
}

// AdminGateway 管理APIへのポート
type AdminGateway interface {
	ListGiveaways(ctx context.Context, adminKey string) ([]AdminGiveaway, error)
	GiveawayStats(ctx context.Context, adminKey, giveawayID string, limit int) (*GiveawayStats, error)
	CreateGiveaway(ctx context.Context, adminKey string, fields map[string]interface{}) (*CreatedGiveaway, error)
	RunAction(ctx context.Context, adminKey, giveawayID string, action AdminAction) error
	SyncOrders(ctx context.Context, adminKey string) error
}

// StatusCoder HTTPステータスを持つエラー
type StatusCoder interface {
	HTTPStatus() int
}
