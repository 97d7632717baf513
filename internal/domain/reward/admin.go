package reward

import "fmt"

// AdminAction 管理画面から実行できるアクション
type AdminAction string

const (
	AdminActionSetCurrent  AdminAction = "set_current"
	AdminActionPause       AdminAction = "pause"
	AdminActionResume      AdminAction = "resume"
	AdminActionForceUnlock AdminAction = "force_unlock"
	AdminActionDraw        AdminAction = "draw"
	AdminActionArchive     AdminAction = "archive"
	AdminActionUnarchive   AdminAction = "unarchive"
	AdminActionDelete      AdminAction = "delete"
)

// NewAdminAction 文字列からAdminActionを作成
func NewAdminAction(s string) (AdminAction, error) {
	a := AdminAction(s)
	switch a {
	case AdminActionSetCurrent, AdminActionPause, AdminActionResume, AdminActionForceUnlock,
		AdminActionDraw, AdminActionArchive, AdminActionUnarchive, AdminActionDelete:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidAdminAction, s)
	}
}

// String 文字列表現を返す
func (a AdminAction) String() string {
	return string(a)
}

// NeedsConfirmation 実行前に確認が必要かどうかを返す
func (a AdminAction) NeedsConfirmation() bool {
	switch a {
	case AdminActionPause, AdminActionResume, AdminActionUnarchive:
		return false
	default:
		return true
	}
}

// AdminGiveaway 管理画面のギブアウェイ一覧の行
type AdminGiveaway struct {
	ID               FlexID   `json:"id"`
	Mode             string   `json:"mode"`
	Status           string   `json:"status"`
	IsCurrent        float64  `json:"is_current"`
	PrizeName        string   `json:"prize_name"`
	Title            string   `json:"title,omitempty"`
	RevenueTargetUSD *float64 `json:"revenue_target_usd"`
	TargetEntries    *float64 `json:"target_entries"`
	StartAt          string   `json:"start_at"`
	WinnerDisplay    string   `json:"winner_display,omitempty"`
	WinnerEmail      string   `json:"winner_email,omitempty"`
	WinnerDrawnAt    string   `json:"winner_drawn_at,omitempty"`
}

// Current 現在公開中かどうかを返す
func (g AdminGiveaway) Current() bool {
	return g.IsCurrent == 1
}

// AvailableActions 行のステータスに応じて実行可能なアクションを返す
func (g AdminGiveaway) AvailableActions() []AdminAction {
	status := ParseStatus(g.Status)
	actions := []AdminAction{AdminActionSetCurrent}
	if status == StatusActive {
		actions = append(actions, AdminActionPause)
	}
	if status == StatusPaused {
		actions = append(actions, AdminActionResume)
	}
	if status != StatusUnlocked {
		actions = append(actions, AdminActionForceUnlock)
	}
	if status == StatusUnlocked && g.WinnerEmail == "" {
		actions = append(actions, AdminActionDraw)
	}
	if status == StatusArchived {
		actions = append(actions, AdminActionUnarchive)
	} else {
		actions = append(actions, AdminActionArchive)
	}
	return append(actions, AdminActionDelete)
}

// GiveawayStats ギブアウェイの統計
type GiveawayStats struct {
	Giveaway     AdminGiveaway `json:"giveaway"`
	Totals       StatsTotals   `json:"totals"`
	Progress     Progress      `json:"progress"`
	Participants []Participant `json:"participants"`
}

// StatsTotals 集計値
type StatsTotals struct {
	TotalEntries float64 `json:"total_entries"`
	UserCount    float64 `json:"user_count"`
	OrdersCount  float64 `json:"orders_count"`
}

// Participant 参加者と当選確率
type Participant struct {
	Email       string  `json:"email"`
	Entries     float64 `json:"entries"`
	Probability float64 `json:"probability"`
}

// CreatedGiveaway 作成結果
type CreatedGiveaway struct {
	ID FlexID `json:"id"`
}
