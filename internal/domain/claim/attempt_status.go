package claim

import "fmt"

// AttemptStatus 請求試行のステータスを表す値オブジェクト
type AttemptStatus string

const (
	AttemptStatusPending   AttemptStatus = "pending"   // 上流へ送信中
	AttemptStatusSucceeded AttemptStatus = "succeeded" // 請求成功
	AttemptStatusFailed    AttemptStatus = "failed"    // 請求失敗
)

// NewAttemptStatus 新しいAttemptStatusを作成
func NewAttemptStatus(s string) (AttemptStatus, error) {
	switch s {
	case "pending", "succeeded", "failed":
		return AttemptStatus(s), nil
	default:
		return "", fmt.Errorf("invalid attempt status: %s", s)
	}
}

// String 文字列表現を返す
func (s AttemptStatus) String() string {
	return string(s)
}

// Valid 有効なステータスかどうかを返す
func (s AttemptStatus) Valid() bool {
	switch s {
	case AttemptStatusPending, AttemptStatusSucceeded, AttemptStatusFailed:
		return true
	default:
		return false
	}
}

// IsSucceeded 成功済みかどうかを返す
func (s AttemptStatus) IsSucceeded() bool {
	return s == AttemptStatusSucceeded
}

// IsPending 送信中かどうかを返す
func (s AttemptStatus) IsPending() bool {
	return s == AttemptStatusPending
}
