package admin

import "community-rewards/internal/domain/reward"

// DashboardResponse 管理画面の表示データ
type DashboardResponse struct {
	Giveaways []reward.AdminGiveaway
	Selected  *reward.GiveawayStats
}

// StatsExport 統計のCSVエクスポート
type StatsExport struct {
	Filename string
	Data     []byte
}
