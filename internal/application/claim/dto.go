package claim

import "time"

// IssueTicketResponse チケット発行レスポンス
type IssueTicketResponse struct {
	TicketID  string
	Token     string
	ExpiresAt time.Time
}

// ClaimRequest 請求リクエスト
type ClaimRequest struct {
	Ticket   string
	UserID   string
	RewardID string
	Email    string
	Name     string
}

// ClaimResponse 請求レスポンス
type ClaimResponse struct {
	TicketID string
	// Replayed 同じチケットで既に成功しており、上流へは送信していない
	Replayed bool
}
