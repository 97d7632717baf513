package memory

import (
	"context"
	"sync"

	"community-rewards/internal/domain/claim"
)

// ClaimAttemptRepository プロセス内に保持するAttemptRepository
// 再起動で消えるため、複数インスタンス構成ではMySQL実装を使う
type ClaimAttemptRepository struct {
	mu       sync.RWMutex
	attempts map[string]*claim.Attempt
}

// NewClaimAttemptRepository 新しいClaimAttemptRepositoryを作成
func NewClaimAttemptRepository() *ClaimAttemptRepository {
	return &ClaimAttemptRepository{attempts: make(map[string]*claim.Attempt)}
}

// Create 試行を記録
func (r *ClaimAttemptRepository) Create(ctx context.Context, a *claim.Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.attempts[a.TicketID()]; ok {
		return claim.ErrDuplicateTicket
	}
	r.attempts[a.TicketID()] = clone(a)
	return nil
}

// Update ステータスとエラーメッセージを更新
func (r *ClaimAttemptRepository) Update(ctx context.Context, a *claim.Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.attempts[a.TicketID()]; !ok {
		return claim.ErrAttemptNotFound
	}
	r.attempts[a.TicketID()] = clone(a)
	return nil
}

// FindByTicketID チケットIDで試行を取得
func (r *ClaimAttemptRepository) FindByTicketID(ctx context.Context, ticketID string) (*claim.Attempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.attempts[ticketID]
	if !ok {
		return nil, claim.ErrAttemptNotFound
	}
	return clone(a), nil
}

func clone(a *claim.Attempt) *claim.Attempt {
	return claim.RestoreAttempt(
		a.TicketID(),
		a.UserID(),
		a.RewardID(),
		a.Status(),
		a.ErrorMessage(),
		a.CreatedAt(),
		a.UpdatedAt(),
	)
}
