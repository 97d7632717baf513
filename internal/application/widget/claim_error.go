package widget

import (
	"net/http"
	"strconv"
	"strings"
)

// 請求失敗をリダイレクト先へ伝えるコード
// 表示する文言はサーバー側で決め、クエリの文字列をそのまま表示しない
const (
	ClaimErrorInProgress = "in_progress"
	ClaimErrorExpired    = "expired"
	ClaimErrorFailed     = "failed"
)

// FailedClaimCode 上流のHTTPステータスを含む失敗コードを返す
func FailedClaimCode(status int) string {
	if status < http.StatusBadRequest || status > 599 {
		return ClaimErrorFailed
	}
	return ClaimErrorFailed + "_" + strconv.Itoa(status)
}

// ClaimErrorMessage コードに対応する表示用メッセージを返す
// 未知のコードは空文字
func ClaimErrorMessage(code string) string {
	switch code {
	case "":
		return ""
	case ClaimErrorInProgress:
		return "A claim for this reward is already in progress."
	case ClaimErrorExpired:
		return "This claim link has expired. Please try again."
	case ClaimErrorFailed:
		return "Claim failed. Please try again."
	}

	raw, ok := strings.CutPrefix(code, ClaimErrorFailed+"_")
	if !ok || len(raw) != 3 {
		return ""
	}
	status, err := strconv.Atoi(raw)
	if err != nil || status < http.StatusBadRequest || status > 599 {
		return ""
	}
	text := http.StatusText(status)
	if text == "" {
		return ""
	}
	return "Claim failed: " + raw + " " + text
}
