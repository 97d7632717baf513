package reward

import "strings"

// ViewModel 正規化済みのリワード表示モデル
// 取得ごとに作り直し、クライアント側でキャッシュしない
type ViewModel struct {
	Giveaway *Giveaway    `json:"giveaway"`
	User     *User        `json:"user"`
	Progress Progress     `json:"progress"`
	UI       UIHints      `json:"ui"`
	Orders   []Order      `json:"orders"`
	Rewards  []PastReward `json:"rewards"`
}

// Giveaway 正規化済みのリワード（旧フィールド名で公開）
type Giveaway struct {
	ID              string   `json:"id"`
	Status          Status   `json:"status"`
	PrizeName       string   `json:"prize_name"`
	Description     string   `json:"description,omitempty"`
	PrizeImage      string   `json:"prize_image,omitempty"`
	PriceUSD        *float64 `json:"price_usd"`
	ValueUSD        *float64 `json:"value_usd"`
	PrizeTickets    *float64 `json:"prize_tickets"`
	TicketsCurrent  *float64 `json:"tickets_current"`
	ProgressPct     *float64 `json:"progress_pct"`
	StartAt         string   `json:"start_at,omitempty"`
	FinishedAt      string   `json:"finished_at,omitempty"`
	UnlockedMessage string   `json:"unlocked_message,omitempty"`
	Locked          bool     `json:"locked"`
	WinnerDisplay   string   `json:"winner_display,omitempty"`
}

// TicketsNeeded 残り必要チケット数を返す（不明な場合はnil）
func (g *Giveaway) TicketsNeeded() *float64 {
	if g == nil || g.PrizeTickets == nil || g.TicketsCurrent == nil {
		return nil
	}
	need := *g.PrizeTickets - *g.TicketsCurrent
	if need < 0 {
		need = 0
	}
	return &need
}

// User 正規化済みのユーザー
// IDが空の場合、このセッションでは請求不可
type User struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Email   string  `json:"email,omitempty"`
	Entries float64 `json:"entries"`
}

// DisplayName 表示名を返す（名前 → メールのローカル部 → "User"）
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	if u.Name != "" {
		return u.Name
	}
	if local, _, _ := strings.Cut(u.Email, "@"); local != "" {
		return local
	}
	return "User"
}

// Progress 進捗の派生ビュー
type Progress struct {
	DisplayPct     *float64 `json:"display_pct"`
	TruePct        *float64 `json:"true_pct,omitempty"`
	CurrentTickets *float64 `json:"current_tickets,omitempty"`
	UserTickets    *float64 `json:"user_tickets,omitempty"`
	TargetEntries  *float64 `json:"target_entries,omitempty"`
}

// UIHints サーバー提供のUIヒント
// CanClaimが非nilの場合、請求可否の判定はサーバーの値が優先される
type UIHints struct {
	CanClaim            *bool    `json:"canClaim,omitempty"`
	ClaimState          string   `json:"claimState,omitempty"`
	ClaimDisabledReason string   `json:"claimDisabledReason,omitempty"`
	TicketsNeeded       *float64 `json:"ticketsNeeded,omitempty"`
	ProgressText        string   `json:"progressText,omitempty"`
}

// Order 対象購入
type Order struct {
	ID          FlexID  `json:"id"`
	DateCreated string  `json:"date_created"`
	ProductName string  `json:"product_name"`
	Entries     float64 `json:"entries"`
	Status      string  `json:"status"`
}

// PastReward 過去のリワード
type PastReward struct {
	ID            FlexID `json:"id"`
	PrizeName     string `json:"prize_name"`
	PrizeImage    string `json:"prize_image"`
	WinnerDisplay string `json:"winner_display"`
	UnlockedAt    string `json:"unlocked_at"`
}

// DisplayPct 判定用の進捗率を返す（100超もそのまま）
// progress.display_pct → giveaway.progress_pct → 0 の順に採用する
func (vm *ViewModel) DisplayPct() float64 {
	if vm == nil {
		return 0
	}
	if vm.Progress.DisplayPct != nil {
		return *vm.Progress.DisplayPct
	}
	if vm.Giveaway != nil && vm.Giveaway.ProgressPct != nil {
		return *vm.Giveaway.ProgressPct
	}
	return 0
}

// FirstPurchase 最も古い注文日時を返す
func (vm *ViewModel) FirstPurchase() string {
	if vm == nil {
		return ""
	}
	earliest := ""
	for _, o := range vm.Orders {
		if o.DateCreated == "" {
			continue
		}
		if earliest == "" || o.DateCreated < earliest {
			earliest = o.DateCreated
		}
	}
	return earliest
}
