package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"community-rewards/internal/domain/reward"
)

func TestEntriesText(t *testing.T) {
	assert.Equal(t, "10", EntriesText(10))
	assert.Equal(t, "15.5", EntriesText(15.5))
	assert.Equal(t, "0", EntriesText(0))
}

func TestTopbarSubtitle(t *testing.T) {
	assert.Equal(t, "No active reward is configured yet.", TopbarSubtitle(nil))
	assert.Equal(t, "No active reward is configured yet.", TopbarSubtitle(&reward.ViewModel{}))
	assert.Equal(t, "Rewards for the TX3 community", TopbarSubtitle(&reward.ViewModel{Giveaway: &reward.Giveaway{}}))
}

func TestProgressHint(t *testing.T) {
	date := func(s string) string { return "D(" + s + ")" }

	assert.Equal(t, "Starts: D(2024-01-01T00:00:00Z)", ProgressHint(&reward.Giveaway{Status: reward.StatusScheduled, StartAt: "2024-01-01T00:00:00Z"}, date))
	assert.Equal(t, "Unlocked", ProgressHint(&reward.Giveaway{Status: reward.StatusUnlocked}, date))
	assert.Equal(t, "Updates periodically", ProgressHint(&reward.Giveaway{Status: reward.StatusActive}, date))
	assert.Equal(t, "Updates periodically", ProgressHint(nil, date))
}

func TestUnlockMessage(t *testing.T) {
	assert.Equal(t, "Unlocked!", UnlockMessage(nil))
	assert.Equal(t, "Unlocked!", UnlockMessage(&reward.Giveaway{}))
	assert.Equal(t, "Winner soon", UnlockMessage(&reward.Giveaway{UnlockedMessage: "Winner soon"}))
}
