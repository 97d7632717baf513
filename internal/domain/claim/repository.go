package claim

import "context"

// AttemptRepository 請求試行の台帳インターフェース
type AttemptRepository interface {
	// Create 新しい試行を記録する。チケットIDが既に存在する場合はErrDuplicateTicket
	Create(ctx context.Context, attempt *Attempt) error

	// Update ステータスとエラーメッセージを更新する
	Update(ctx context.Context, attempt *Attempt) error

	// FindByTicketID チケットIDで試行を取得
	FindByTicketID(ctx context.Context, ticketID string) (*Attempt, error)
}
