package embed

import "errors"

var (
	// ErrNotResizeMessage リサイズメッセージではないエラー
	ErrNotResizeMessage = errors.New("not an iframe resize message")
	// ErrMalformedMessage メッセージの形式が不正なエラー
	ErrMalformedMessage = errors.New("malformed resize message")
	// ErrOriginNotAllowed 許可されていないオリジンからのメッセージエラー
	ErrOriginNotAllowed = errors.New("origin not allowed")
)
