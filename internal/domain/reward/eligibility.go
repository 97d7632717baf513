package reward

import (
	"fmt"
	"strings"
)

// CompletionThreshold 達成とみなす進捗率
const CompletionThreshold = 100.0

// ThresholdMode 達成判定の比較モード
// 過去のリビジョンで「100以上」と「100超」が混在していたため、設定で一つに固定する
type ThresholdMode string

const (
	ThresholdReach  ThresholdMode = "reach"  // display_pct >= 100
	ThresholdExceed ThresholdMode = "exceed" // display_pct > 100
)

// DefaultThresholdMode デフォルトの比較モード
const DefaultThresholdMode = ThresholdReach

// NewThresholdMode 文字列からThresholdModeを作成
func NewThresholdMode(s string) (ThresholdMode, error) {
	switch ThresholdMode(strings.ToLower(strings.TrimSpace(s))) {
	case ThresholdReach:
		return ThresholdReach, nil
	case ThresholdExceed:
		return ThresholdExceed, nil
	default:
		return "", fmt.Errorf("invalid threshold mode: %s", s)
	}
}

// Complete 進捗率が達成条件を満たすかどうかを返す
func (m ThresholdMode) Complete(pct float64) bool {
	if m == ThresholdExceed {
		return pct > CompletionThreshold
	}
	return pct >= CompletionThreshold
}

// ClaimState 請求コントロールの表示状態
type ClaimState string

const (
	ClaimStateAvailable      ClaimState = "available"       // 請求可能
	ClaimStateAlreadyClaimed ClaimState = "already_claimed" // 他のユーザーが請求済み
	ClaimStateInProgress     ClaimState = "in_progress"     // 進捗が未達
	ClaimStateNotStarted     ClaimState = "not_started"     // scheduled / draft
	ClaimStateUnavailable    ClaimState = "unavailable"     // paused / archived / サーバー判断
	ClaimStateNoUser         ClaimState = "no_user"         // ユーザーIDなし
	ClaimStateNoReward       ClaimState = "no_reward"       // リワードなし
)

// Decision 請求可否の判定結果
type Decision struct {
	CanClaim       bool       `json:"can_claim"`
	State          ClaimState `json:"state"`
	Reason         string     `json:"reason,omitempty"`
	ServerOverride bool       `json:"server_override"`
}

// Evaluate 請求可否を判定する
// レンダリングごとに評価し、結果をキャッシュしない
func Evaluate(vm *ViewModel, mode ThresholdMode) Decision {
	if vm == nil || vm.Giveaway == nil {
		return Decision{State: ClaimStateNoReward}
	}

	local := localState(vm, mode)

	// サーバーのcanClaimがあればそれが最優先
	if vm.UI.CanClaim != nil {
		d := Decision{
			CanClaim:       *vm.UI.CanClaim,
			Reason:         vm.UI.ClaimDisabledReason,
			ServerOverride: true,
		}
		if d.CanClaim {
			d.State = ClaimStateAvailable
			return d
		}
		d.State = local
		if d.State == ClaimStateAvailable {
			d.State = ClaimStateUnavailable
		}
		if d.Reason == "" {
			d.Reason = reasonFor(d.State)
		}
		return d
	}

	return Decision{
		CanClaim: local == ClaimStateAvailable,
		State:    local,
		Reason:   reasonFor(local),
	}
}

func localState(vm *ViewModel, mode ThresholdMode) ClaimState {
	g := vm.Giveaway
	switch {
	case g.Status.IsPreLaunch():
		return ClaimStateNotStarted
	case !g.Status.IsClaimWindow():
		return ClaimStateUnavailable
	case g.Locked:
		return ClaimStateAlreadyClaimed
	case !mode.Complete(vm.DisplayPct()):
		return ClaimStateInProgress
	case vm.User == nil || vm.User.ID == "":
		return ClaimStateNoUser
	default:
		return ClaimStateAvailable
	}
}

func reasonFor(state ClaimState) string {
	switch state {
	case ClaimStateAlreadyClaimed:
		return "This prize has already been claimed."
	case ClaimStateInProgress:
		return "The unlock meter has not been filled yet."
	case ClaimStateNotStarted:
		return "This reward has not started yet."
	case ClaimStateUnavailable:
		return "This reward is not currently claimable."
	case ClaimStateNoUser:
		return "A user ID is required to claim."
	default:
		return ""
	}
}
