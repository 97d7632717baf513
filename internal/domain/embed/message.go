package embed

import (
	"encoding/json"
	"time"
)

const (
	// MessageType リサイズメッセージのtype
	MessageType = "iframe-resize"
	// MessageSource 送信元の識別子
	MessageSource = "tx3-rewards-iframe"

	// ResizeThreshold この値（px）を超えて変化した場合のみ送信する
	ResizeThreshold = 5
	// DebounceDelay リサイズ・DOM変更のバースト後に計測するまでの待ち時間
	DebounceDelay = 150 * time.Millisecond
	// LoadDelay 画像読み込み完了後に計測するまでの待ち時間
	LoadDelay = 500 * time.Millisecond
	// PollInterval 定期計測の間隔
	PollInterval = 2 * time.Second

	// DefaultHeight ホスト側の初期高さ
	DefaultHeight = 800
	// MinHeight ホスト側の最小高さ
	MinHeight = 400
)

// ResizeMessage 埋め込み側からホストへ送るメッセージ
type ResizeMessage struct {
	Type   string `json:"type"`
	Height int    `json:"height"`
	Source string `json:"source"`
}

// NewResizeMessage 高さからメッセージを作成
func NewResizeMessage(height int) ResizeMessage {
	return ResizeMessage{
		Type:   MessageType,
		Height: height,
		Source: MessageSource,
	}
}

// IsResize typeとsourceが一致するかどうかを返す
func (m ResizeMessage) IsResize() bool {
	return m.Type == MessageType && m.Source == MessageSource
}

// DecodeMessage JSONをメッセージにデコードする
func DecodeMessage(data []byte) (ResizeMessage, error) {
	var m ResizeMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ResizeMessage{}, ErrMalformedMessage
	}
	if !m.IsResize() {
		return ResizeMessage{}, ErrNotResizeMessage
	}
	if m.Height <= 0 {
		return ResizeMessage{}, ErrMalformedMessage
	}
	return m, nil
}

// exceedsThreshold 高さの変化がしきい値を超えるかどうかを返す
func exceedsThreshold(current, last int) bool {
	diff := current - last
	if diff < 0 {
		diff = -diff
	}
	return diff > ResizeThreshold
}
