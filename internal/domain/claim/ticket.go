package claim

import "time"

// Ticket ユーザーとリワードに紐づく署名済みの請求チケット
// IDは上流への送信の冪等キーとなる
type Ticket struct {
	ID        string
	Token     string
	UserID    string
	RewardID  string
	ExpiresAt time.Time
}

// TicketIssuer チケットの発行と検証を行うポート
type TicketIssuer interface {
	Issue(userID, rewardID string) (*Ticket, error)
	// Verify 検証に成功した場合チケットIDを返す
	Verify(token, userID, rewardID string) (string, error)
}
