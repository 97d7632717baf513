package claim

import (
	"regexp"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)

// Attempt 請求試行エンティティ
// チケットIDが冪等キーとなり、同じチケットで上流へ二度送信しない
type Attempt struct {
	ticketID     string
	userID       string
	rewardID     string
	status       AttemptStatus
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewAttempt 送信中ステータスの新しい試行を作成
func NewAttempt(ticketID, userID, rewardID string) (*Attempt, error) {
	if !idRegex.MatchString(ticketID) || userID == "" || rewardID == "" {
		return nil, ErrInvalidAttempt
	}
	now := time.Now()
	return &Attempt{
		ticketID:  ticketID,
		userID:    userID,
		rewardID:  rewardID,
		status:    AttemptStatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// RestoreAttempt 永続化された値から試行を復元する
func RestoreAttempt(
	ticketID string,
	userID string,
	rewardID string,
	status AttemptStatus,
	errorMessage string,
	createdAt time.Time,
	updatedAt time.Time,
) *Attempt {
	return &Attempt{
		ticketID:     ticketID,
		userID:       userID,
		rewardID:     rewardID,
		status:       status,
		errorMessage: errorMessage,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// TicketID チケットIDを返す
func (a *Attempt) TicketID() string {
	return a.ticketID
}

// UserID ユーザーIDを返す
func (a *Attempt) UserID() string {
	return a.userID
}

// RewardID リワードIDを返す
func (a *Attempt) RewardID() string {
	return a.rewardID
}

// Status ステータスを返す
func (a *Attempt) Status() AttemptStatus {
	return a.status
}

// ErrorMessage 失敗時のエラーメッセージを返す
func (a *Attempt) ErrorMessage() string {
	return a.errorMessage
}

// CreatedAt 作成日時を返す
func (a *Attempt) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt 更新日時を返す
func (a *Attempt) UpdatedAt() time.Time {
	return a.updatedAt
}

// MarkSucceeded 成功として記録する
func (a *Attempt) MarkSucceeded() {
	a.status = AttemptStatusSucceeded
	a.errorMessage = ""
	a.updatedAt = time.Now()
}

// MarkFailed 失敗として記録する
func (a *Attempt) MarkFailed(message string) {
	a.status = AttemptStatusFailed
	a.errorMessage = message
	a.updatedAt = time.Now()
}
