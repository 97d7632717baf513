package widget

import (
	"net/url"
	"strconv"
	"strings"
)

// RequestContext リクエストごとに一度だけ組み立てるページ文脈
type RequestContext struct {
	Token      string
	AdminKey   string
	Embedded   bool
	ClaimError string // claim_errorのコードから引いた表示用メッセージ
	Claimed    bool
}

// NewRequestContext クエリ文字列からRequestContextを作成
func NewRequestContext(q url.Values) RequestContext {
	return RequestContext{
		Token:      strings.TrimSpace(q.Get("token")),
		AdminKey:   q.Get("admin_key"),
		Embedded:   isTruthy(q.Get("embedded")),
		ClaimError: ClaimErrorMessage(q.Get("claim_error")),
		Claimed:    isTruthy(q.Get("claimed")),
	}
}

func isTruthy(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
