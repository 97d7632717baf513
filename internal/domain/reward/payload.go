package reward

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID 文字列または数値で届く不透明な識別子
type FlexID string

// UnmarshalJSON 文字列・数値・nullのいずれも受け付ける
func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = FlexID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = FlexID(n.String())
	return nil
}

// String 文字列表現を返す
func (id FlexID) String() string {
	return string(id)
}

// RawPayload リワードAPIのレスポンス（新旧の形を両方含む）
type RawPayload struct {
	Reward   *RawReward   `json:"reward"`
	Giveaway *RawGiveaway `json:"giveaway"`
	User     *RawUser     `json:"user"`
	Progress *RawProgress `json:"progress"`
	UI       *RawUIHints  `json:"ui"`
	Orders   []Order      `json:"orders"`
	Rewards  []PastReward `json:"rewards"`
	Past     []PastReward `json:"past"`
}

// RawReward 新しい形のリワード
type RawReward struct {
	RewardID            FlexID   `json:"reward_id"`
	Status              string   `json:"status"`
	RewardName          string   `json:"reward_name"`
	RewardDescription   string   `json:"reward_description"`
	RewardImage         string   `json:"reward_image"`
	RewardShownUSDValue *float64 `json:"reward_shown_usd_value"`
	ValueUSD            *float64 `json:"value_usd"`
	ValueTickets        *float64 `json:"value_tickets"`
	ProgressPct         *float64 `json:"progress_pct"`
	StartAt             string   `json:"start_at"`
	FinishedAt          string   `json:"finished_at"`
	UnlockedMessage     string   `json:"unlocked_message"`
	Locked              bool     `json:"locked"`
}

// RawGiveaway 旧形式（/current）のギブアウェイ
type RawGiveaway struct {
	ID               FlexID   `json:"id"`
	Mode             string   `json:"mode"`
	Status           string   `json:"status"`
	PrizeName        string   `json:"prize_name"`
	PrizeImage       string   `json:"prize_image"`
	PrizeMSRPUSD     *float64 `json:"prize_msrp_usd"`
	PriceUSD         *float64 `json:"price_usd"`
	Description      string   `json:"description"`
	StartAt          string   `json:"start_at"`
	UnlockedMessage  string   `json:"unlocked_message"`
	RevenueTargetUSD *float64 `json:"revenue_target_usd"`
	TargetEntries    *float64 `json:"target_entries"`
	ProgressPct      *float64 `json:"progress_pct"`
	Locked           bool     `json:"locked"`
	WinnerDisplay    string   `json:"winner_display"`
}

// RawUser ユーザー（旧フィールド名を含む）
type RawUser struct {
	UserID      FlexID   `json:"user_id"`
	ID          FlexID   `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Entries     *float64 `json:"entries"`
	UserTickets *float64 `json:"user_tickets"`
	Orders      []Order  `json:"orders"`
}

// RawProgress 進捗
type RawProgress struct {
	DisplayPct     *float64 `json:"display_pct"`
	TruePct        *float64 `json:"true_pct"`
	CurrentTickets *float64 `json:"current_tickets"`
	UserTickets    *float64 `json:"user_tickets"`
	TargetEntries  *float64 `json:"target_entries"`
}

// RawUIHints サーバー計算のUIヒント
type RawUIHints struct {
	CanClaim            *bool    `json:"canClaim"`
	ClaimState          string   `json:"claimState"`
	ClaimDisabledReason *string  `json:"claimDisabledReason"`
	TicketsNeeded       *float64 `json:"ticketsNeeded"`
	ProgressText        string   `json:"progressText"`
}

// DecodePayload JSONをRawPayloadにデコードする
// 空・null・オブジェクト以外の場合は nil, nil を返す
func DecodePayload(data []byte) (*RawPayload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}
	var raw RawPayload
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode rewards payload: %w", err)
	}
	return &raw, nil
}
