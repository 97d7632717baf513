package legacy

import (
	"time"

	"community-rewards/internal/domain/reward"
)

// CurrentResponse 現在のギブアウェイ
type CurrentResponse struct {
	Data      *reward.ViewModel `json:"data"`
	FetchedAt time.Time         `json:"fetched_at"`
	// Error 直近の更新が失敗した場合のメッセージ（Dataは前回の値）
	Error string `json:"error,omitempty"`
}

// MeResponse ログインユーザーのエントリー
type MeResponse struct {
	Name    string         `json:"name,omitempty"`
	Email   string         `json:"email,omitempty"`
	Entries float64        `json:"entries"`
	Orders  []reward.Order `json:"orders"`
}
