package embed

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
)

// HeightFunc 現在のドキュメントの高さを計測する
type HeightFunc func() int

// PostFunc ホストへメッセージを送る
type PostFunc func(ResizeMessage)

// Sender 埋め込み側の高さ通知
// 直前に送信した高さからResizeThresholdを超えて変化したときだけ送信する
type Sender struct {
	clock   clockwork.Clock
	measure HeightFunc
	post    PostFunc

	mu       sync.Mutex
	last     int
	debounce clockwork.Timer
	load     clockwork.Timer
	closed   bool
}

// NewSender 新しいSenderを作成
func NewSender(clock clockwork.Clock, measure HeightFunc, post PostFunc) *Sender {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sender{
		clock:   clock,
		measure: measure,
		post:    post,
	}
}

// Check 高さを計測し、しきい値を超えていれば送信する
func (s *Sender) Check() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	current := s.measure()
	if !exceedsThreshold(current, s.last) {
		s.mu.Unlock()
		return false
	}
	s.last = current
	s.mu.Unlock()

	s.post(NewResizeMessage(current))
	return true
}

// Trigger リサイズやDOM変更の通知。DebounceDelay内の連続した呼び出しは1回の計測にまとめる
func (s *Sender) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = s.clock.AfterFunc(DebounceDelay, func() { s.Check() })
}

// Loaded ページ読み込み完了の通知。LoadDelay後に計測する
func (s *Sender) Loaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.load != nil {
		s.load.Stop()
	}
	s.load = s.clock.AfterFunc(LoadDelay, func() { s.Check() })
}

// LastHeight 最後に送信した高さを返す
func (s *Sender) LastHeight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Start 初回計測を行い、定期計測を開始する
// 返されたSubscriptionをCloseすると全てのタイマーが解放される
func (s *Sender) Start(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{sender: s, cancel: cancel}

	s.Check()

	ticker := s.clock.NewTicker(PollInterval)
	sub.wg.Add(1)
	go func() {
		defer sub.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				s.Check()
			}
		}
	}()

	return sub
}

// Subscription 実行中の高さ通知
type Subscription struct {
	sender *Sender
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Close 定期計測とデバウンス中のタイマーを停止する。複数回呼び出しても安全
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.cancel()
		sub.wg.Wait()

		s := sub.sender
		s.mu.Lock()
		s.closed = true
		for _, t := range []clockwork.Timer{s.debounce, s.load} {
			if t != nil {
				t.Stop()
			}
		}
		s.debounce, s.load = nil, nil
		s.mu.Unlock()
	})
}
