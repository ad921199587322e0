package translation

import "sync/atomic"

// Session 一个 UI 上下文的请求代数。Begin 开启新一代，旧的 Ticket 随之失效
type Session struct {
	epoch  atomic.Uint64
	closed atomic.Bool
}

// NewSession 创建会话
func NewSession() *Session {
	return &Session{}
}

// Begin 开启新一代并返回对应的 Ticket
func (s *Session) Begin() *Ticket {
	return &Ticket{session: s, epoch: s.epoch.Add(1)}
}

// Close 使所有 Ticket 失效
func (s *Session) Close() {
	s.closed.Store(true)
	s.epoch.Add(1)
}

// Ticket 某一代的凭证，实现 Guard
type Ticket struct {
	session *Session
	epoch   uint64
}

var _ Guard = (*Ticket)(nil)

// Current 仍是最新一代且会话未关闭
func (t *Ticket) Current() bool {
	return !t.session.closed.Load() && t.session.epoch.Load() == t.epoch
}
