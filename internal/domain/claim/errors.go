package claim

import "errors"

var (
	// ErrAttemptNotFound 請求試行が見つからないエラー
	ErrAttemptNotFound = errors.New("claim attempt not found")
	// ErrDuplicateTicket 同じチケットで既に試行が記録されているエラー
	ErrDuplicateTicket = errors.New("duplicate claim ticket")
	// ErrClaimInProgress 同じユーザー・リワードの請求が処理中のエラー
	ErrClaimInProgress = errors.New("claim already in progress")
	// ErrPreconditionFailed ユーザーIDまたはリワードIDが欠けているエラー
	ErrPreconditionFailed = errors.New("claim precondition failed")
	// ErrInvalidTicket チケットが無効・期限切れ・不一致のエラー
	ErrInvalidTicket = errors.New("invalid claim ticket")
	// ErrInvalidAttempt 無効な請求試行エラー
	ErrInvalidAttempt = errors.New("invalid claim attempt")
)
