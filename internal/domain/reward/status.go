package reward

import (
	"fmt"
	"strings"
)

// Status リワードのライフサイクルステータスを表す値オブジェクト
type Status string

const (
	StatusScheduled Status = "scheduled" // 開始前
	StatusActive    Status = "active"    // 進行中
	StatusUnlocked  Status = "unlocked"  // 目標達成
	StatusPaused    Status = "paused"    // 一時停止
	StatusDraft     Status = "draft"     // 下書き
	StatusArchived  Status = "archived"  // アーカイブ済み
)

// ParseStatus 大文字小文字を区別せずにStatusへ変換する
// 未知の値はそのまま保持する（表示のみ、請求不可）
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// NewStatus 既知のステータスのみ受け付けてStatusを作成
func NewStatus(s string) (Status, error) {
	st := ParseStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid reward status: %s", s)
	}
	return st, nil
}

// String 文字列表現を返す
func (s Status) String() string {
	return string(s)
}

// Valid 既知のステータスかどうかを返す
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusUnlocked, StatusPaused, StatusDraft, StatusArchived:
		return true
	default:
		return false
	}
}

// IsClaimWindow 請求判定の対象となるステータスかどうかを返す
func (s Status) IsClaimWindow() bool {
	return s == StatusUnlocked || s == StatusActive
}

// IsPreLaunch 開始前（請求不可が確定）のステータスかどうかを返す
func (s Status) IsPreLaunch() bool {
	return s == StatusScheduled || s == StatusDraft
}

// Label 表示用ラベルを返す
func (s Status) Label() string {
	switch s {
	case StatusScheduled:
		return "Scheduled"
	case StatusActive:
		return "Active"
	case StatusUnlocked:
		return "Unlocked"
	case StatusPaused:
		return "Paused"
	case StatusDraft:
		return "Draft"
	case StatusArchived:
		return "Archived"
	}
	if s == "" {
		return "—"
	}
	return string(s)
}

// PillClass ステータスピルのCSSクラスを返す
func (s Status) PillClass() string {
	switch s {
	case StatusUnlocked, StatusActive:
		return "pill pill--good"
	case StatusPaused:
		return "pill pill--warn"
	default:
		return "pill pill--muted"
	}
}

// TagClass 注文や管理画面の汎用ステータスタグのCSSクラスを返す
func TagClass(status string) string {
	switch strings.ToLower(status) {
	case "completed", "success", "active", "unlocked":
		return "tag tag--success"
	case "error", "failed", "cancelled", "rejected":
		return "tag tag--error"
	case "pending", "processing", "scheduled", "in_progress":
		return "tag tag--pending"
	default:
		return "tag"
	}
}
