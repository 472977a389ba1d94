package editor

import "sync"

// Token 标识一次进行中的 AI 操作。
type Token struct {
	Key string
	Seq uint64
}

// Slots 记录每个逻辑槽位（例如"第 2 条工作经历的描述"）最新的令牌。
// 同一槽位只有最后一次 Begin 的结果有效；不同槽位互不影响。
type Slots struct {
	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func NewSlots() *Slots {
	return &Slots{latest: make(map[string]uint64)}
}

// Begin 为槽位签发新令牌，之前的令牌随之失效。
func (s *Slots) Begin(key string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.latest[key] = s.seq
	return Token{Key: key, Seq: s.seq}
}

// Complete 判断令牌是否仍然有效；有效时释放槽位并返回 true。
func (s *Slots) Complete(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[t.Key] != t.Seq || t.Seq == 0 {
		return false
	}
	delete(s.latest, t.Key)
	return true
}

// Invalidate 使槽位上的进行中操作失效（用户直接编辑了该字段）。
func (s *Slots) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.latest, key)
}

// InvalidateAll 在文档被整体替换时调用。
func (s *Slots) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.latest)
}

// InFlight 报告槽位上是否有进行中的操作。
func (s *Slots) InFlight(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.latest[key]
	return ok
}
