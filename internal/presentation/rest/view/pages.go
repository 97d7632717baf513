package view

import (
	"net/url"

	"community-rewards/internal/application/widget"
	"community-rewards/internal/domain/embed"
	"community-rewards/internal/domain/reward"
)

// テンプレート名
const (
	WidgetTemplate       = "widget.html"
	FragmentTemplate     = "fragment.html"
	AdminTemplate        = "admin.html"
	AdminLoginTemplate   = "admin_login.html"
	EmbedExampleTemplate = "embed_example.html"

	BridgeScript = "bridge.js"
	HostScript   = "host.js"
)

// WidgetPage ウィジェットページの表示データ
type WidgetPage struct {
	State   widget.ViewState
	Request widget.RequestContext
	// BasePath ページ自身のパス（再取得やフォームの戻り先）
	BasePath string
}

// Giveaway 表示中のリワード（なければnil）
func (p WidgetPage) Giveaway() *reward.Giveaway {
	if p.State.Data == nil {
		return nil
	}
	return p.State.Data.Giveaway
}

// User 表示中のユーザー（なければnil）
func (p WidgetPage) User() *reward.User {
	if p.State.Data == nil {
		return nil
	}
	return p.State.Data.User
}

// Authenticated ユーザーが特定できているかどうか
func (p WidgetPage) Authenticated() bool {
	u := p.User()
	return u != nil && u.ID != ""
}

// ShowClaim 請求ボタンを表示するかどうか
func (p WidgetPage) ShowClaim() bool {
	return p.State.Decision.CanClaim && p.State.ClaimTicket != ""
}

// SelfURL 現在のトークンを保ったページURL
func (p WidgetPage) SelfURL() string {
	q := url.Values{}
	if p.Request.Token != "" {
		q.Set("token", p.Request.Token)
	}
	if p.Request.Embedded {
		q.Set("embedded", "1")
	}
	if len(q) == 0 {
		return p.BasePath
	}
	return p.BasePath + "?" + q.Encode()
}

// FragmentURL 再取得用のフラグメントURL
func (p WidgetPage) FragmentURL() string {
	q := url.Values{"token": {p.Request.Token}}
	if p.Request.Embedded {
		q.Set("embedded", "1")
	}
	return "/widget/fragment?" + q.Encode()
}

// AdminPage 管理画面の表示データ
type AdminPage struct {
	Giveaways []reward.AdminGiveaway
	Selected  *reward.GiveawayStats
	// SelectedID 統計を表示中のギブアウェイID
	SelectedID string
	AdminKey   string
	Notice     string
	NoticeBad  bool
}

// EmbedScript ブラウザ用スクリプトに埋め込む定数
type EmbedScript struct {
	MessageType    string
	MessageSource  string
	Threshold      int
	DebounceMs     int64
	LoadDelayMs    int64
	PollIntervalMs int64
	DefaultHeight  int
	MinHeight      int
	AllowAll       bool
	Origins        []string
	// ReportPath 拒否したメッセージの報告先
	ReportPath string
}

// NewEmbedScript ドメインの定数とオリジンの許可リストから作成
func NewEmbedScript(policy embed.OriginPolicy) EmbedScript {
	return EmbedScript{
		MessageType:    embed.MessageType,
		MessageSource:  embed.MessageSource,
		Threshold:      embed.ResizeThreshold,
		DebounceMs:     embed.DebounceDelay.Milliseconds(),
		LoadDelayMs:    embed.LoadDelay.Milliseconds(),
		PollIntervalMs: embed.PollInterval.Milliseconds(),
		DefaultHeight:  embed.DefaultHeight,
		MinHeight:      embed.MinHeight,
		AllowAll:       policy.AllowAll(),
		Origins:        policy.Origins(),
		ReportPath:     "/embed/report",
	}
}

// EmbedExamplePage ホスト側の埋め込み例ページ
type EmbedExamplePage struct {
	WidgetURL     string
	HostScriptURL string
	Strategy      string
	Script        EmbedScript
}
