package embed

import (
	"sort"
	"strings"
	"sync"
)

// OriginPolicy メッセージを受け付けるオリジンの許可リスト
type OriginPolicy struct {
	allowAll bool
	allowed  map[string]struct{}
}

// NewOriginPolicy 許可リストからOriginPolicyを作成
// "*" を含む場合は全てのオリジンを許可する（開発環境用）
func NewOriginPolicy(origins []string) OriginPolicy {
	p := OriginPolicy{allowed: make(map[string]struct{})}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			p.allowAll = true
			continue
		}
		p.allowed[strings.ToLower(o)] = struct{}{}
	}
	return p
}

// Allows オリジンが許可されているかどうかを返す
func (p OriginPolicy) Allows(origin string) bool {
	if p.allowAll {
		return true
	}
	_, ok := p.allowed[strings.ToLower(strings.TrimRight(origin, "/"))]
	return ok
}

// AllowAll 全てのオリジンを許可しているかどうかを返す
func (p OriginPolicy) AllowAll() bool {
	return p.allowAll
}

// Origins 許可されたオリジンを昇順で返す
func (p OriginPolicy) Origins() []string {
	if p.allowAll {
		return []string{"*"}
	}
	out := make([]string, 0, len(p.allowed))
	for o := range p.allowed {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// HeightStrategy 受信した高さの反映方法
type HeightStrategy interface {
	// Apply 高さを反映し、実際に変化したかどうかを返す
	Apply(height int) bool
}

// StateStrategy 高さを状態として保持し、変化したときだけ更新する
type StateStrategy struct {
	mu     sync.Mutex
	height int
}

// NewStateStrategy 初期高さを指定して作成
func NewStateStrategy(initial int) *StateStrategy {
	return &StateStrategy{height: initial}
}

// Apply 高さが異なる場合のみ更新する
func (s *StateStrategy) Apply(height int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if height == s.height {
		return false
	}
	s.height = height
	return true
}

// Height 現在の高さを返す
func (s *StateStrategy) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// DirectStrategy 状態を持たずに受信した高さを直接書き込む
type DirectStrategy struct {
	sink func(height int)
}

// NewDirectStrategy 書き込み先を指定して作成
func NewDirectStrategy(sink func(height int)) *DirectStrategy {
	return &DirectStrategy{sink: sink}
}

// Apply 常に書き込む
func (d *DirectStrategy) Apply(height int) bool {
	d.sink(height)
	return true
}

// Receiver ホスト側のリサイズメッセージ受信
type Receiver struct {
	policy   OriginPolicy
	strategy HeightStrategy
}

// NewReceiver 新しいReceiverを作成
// 分類だけを行う場合はstrategyにnilを渡す
func NewReceiver(policy OriginPolicy, strategy HeightStrategy) *Receiver {
	return &Receiver{
		policy:   policy,
		strategy: strategy,
	}
}

// Classify メッセージを検証するが高さは反映しない
// typeとsourceが一致しないメッセージはErrNotResizeMessage、オリジンが許可されていなければErrOriginNotAllowed
func (r *Receiver) Classify(origin string, data []byte) (ResizeMessage, error) {
	msg, err := DecodeMessage(data)
	if err != nil {
		return ResizeMessage{}, err
	}
	if !r.policy.Allows(origin) {
		return ResizeMessage{}, ErrOriginNotAllowed
	}
	return msg, nil
}

// Accept メッセージを検証して高さを反映する
func (r *Receiver) Accept(origin string, data []byte) (bool, error) {
	msg, err := r.Classify(origin, data)
	if err != nil {
		return false, err
	}
	if r.strategy == nil {
		return false, nil
	}
	return r.strategy.Apply(msg.Height), nil
}
