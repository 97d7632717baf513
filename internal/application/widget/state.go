package widget

import (
	"errors"
	"net/http"

	"community-rewards/internal/domain/reward"
)

// ViewState ページの表示状態
type ViewState struct {
	Landing     bool
	Loading     bool
	Data        *reward.ViewModel
	Decision    reward.Decision
	BarWidth    float64
	Error       string
	ErrorStatus int
	NotFound    bool
	Claiming    bool
	ClaimError  string
	ClaimTicket string
}

// EventKind 状態更新の種類
type EventKind int

const (
	EventLoadStarted EventKind = iota
	EventLoadSucceeded
	EventLoadFailed
	EventLoadFinished
	EventClaimStarted
	EventClaimSucceeded
	EventClaimFailed
)

// Event 状態更新
type Event struct {
	Kind     EventKind
	Data     *reward.ViewModel
	Decision reward.Decision
	Err      error
}

// Reduce 状態に更新を適用した新しい状態を返す
// 取得は loading → success|error → loading=false の順で適用する
func Reduce(s ViewState, ev Event) ViewState {
	switch ev.Kind {
	case EventLoadStarted:
		s.Loading = true
		s.Landing = false
	case EventLoadSucceeded:
		s.Data = ev.Data
		s.Decision = ev.Decision
		s.BarWidth = reward.BarWidth(ev.Data)
		s.Error = ""
		s.ErrorStatus = 0
		s.NotFound = false
	case EventLoadFailed:
		s.Error = errorMessage(ev.Err)
		s.ErrorStatus = statusOf(ev.Err)
		s.NotFound = errors.Is(ev.Err, reward.ErrRewardNotFound)
		if s.NotFound {
			// 別ユーザーのデータを表示し続けない
			s.Data = nil
			s.Decision = reward.Decision{}
			s.BarWidth = 0
		}
	case EventLoadFinished:
		s.Loading = false
	case EventClaimStarted:
		s.Claiming = true
		s.ClaimError = ""
	case EventClaimSucceeded:
		s.Claiming = false
		s.ClaimError = ""
	case EventClaimFailed:
		s.Claiming = false
		s.ClaimError = errorMessage(ev.Err)
	}
	return s
}

// ShowErrorScreen 専用のエラー画面でコンテンツを置き換えるかどうかを返す
func (s ViewState) ShowErrorScreen() bool {
	return s.Error != "" && s.Data == nil
}

// ErrorTitle エラー画面の見出しを返す
func (s ViewState) ErrorTitle() string {
	if s.NotFound {
		return "User Not Found"
	}
	return "Error Loading Rewards"
}

// Retryable 再試行の導線を出すかどうかを返す
func (s ViewState) Retryable() bool {
	return s.Error != "" && !s.NotFound
}

func errorMessage(err error) string {
	if err == nil {
		return "Failed to load rewards data"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to load rewards data"
}

func statusOf(err error) int {
	var sc reward.StatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	if errors.Is(err, reward.ErrRewardNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
