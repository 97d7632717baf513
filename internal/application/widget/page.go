package widget

import (
	"strconv"

	"community-rewards/internal/domain/reward"
)

// EntriesText エントリー数を表示用に整形する（端数があれば小数1桁）
func EntriesText(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// TopbarSubtitle ヘッダーのサブタイトルを返す
func TopbarSubtitle(vm *reward.ViewModel) string {
	if vm == nil || vm.Giveaway == nil {
		return "No active reward is configured yet."
	}
	return "Rewards for the TX3 community"
}

// ProgressHint 進捗メーターのヒントを返す
func ProgressHint(g *reward.Giveaway, formatDate func(string) string) string {
	if g == nil {
		return "Updates periodically"
	}
	switch g.Status {
	case reward.StatusScheduled:
		return "Starts: " + formatDate(g.StartAt)
	case reward.StatusUnlocked:
		return "Unlocked"
	default:
		return "Updates periodically"
	}
}

// UnlockMessage 達成時のメッセージを返す
func UnlockMessage(g *reward.Giveaway) string {
	if g == nil || g.UnlockedMessage == "" {
		return "Unlocked!"
	}
	return g.UnlockedMessage
}
