package reward

import "errors"

var (
	// ErrRewardNotFound ユーザーまたはリワードが見つからないエラー
	ErrRewardNotFound = errors.New("reward not found")
	// ErrMissingToken トークンが指定されていないエラー
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidAdminAction 未知の管理アクションエラー
	ErrInvalidAdminAction = errors.New("invalid admin action")
	// ErrInvalidGiveawayField 作成フォームの値が不正なエラー
	ErrInvalidGiveawayField = errors.New("invalid giveaway field")
)
