// Package history 实现有界的线性撤销/重做栈。
//
// Manager 不做并发保护，由持有它的编辑器负责串行访问。
package history

// DefaultLimit 是默认保留的快照数量。
const DefaultLimit = 50

// Manager 保存完整快照与游标。超过上限时丢弃最旧的快照。
type Manager[T any] struct {
	entries   []T
	cursor    int
	limit     int
	replaying bool
	notify    func(T)
}

// New 以 initial 作为唯一快照创建管理器。notify 在撤销/重做后收到新的当前值，可为 nil。
func New[T any](initial T, limit int, notify func(T)) *Manager[T] {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager[T]{
		entries: []T{initial},
		limit:   limit,
		notify:  notify,
	}
}

// Record 记录新快照并返回是否入栈。回放期间（notify 回调内）的调用只透传，不修改缓冲区。
func (m *Manager[T]) Record(v T) bool {
	if m.replaying {
		return false
	}
	m.entries = append(m.entries[:m.cursor+1], v)
	m.cursor = len(m.entries) - 1
	if len(m.entries) > m.limit {
		var zero T
		m.entries[0] = zero
		m.entries = m.entries[1:]
		m.cursor--
	}
	return true
}

// Undo 回退一步；已在最早快照时返回 false。
func (m *Manager[T]) Undo() (T, bool) {
	if m.cursor == 0 {
		return m.entries[m.cursor], false
	}
	m.cursor--
	m.replay()
	return m.entries[m.cursor], true
}

// Redo 前进一步；已在最新快照时返回 false。
func (m *Manager[T]) Redo() (T, bool) {
	if m.cursor == len(m.entries)-1 {
		return m.entries[m.cursor], false
	}
	m.cursor++
	m.replay()
	return m.entries[m.cursor], true
}

// replay 通知持有者，并保证回放标记在通知后恰好清除一次。
func (m *Manager[T]) replay() {
	m.replaying = true
	defer func() { m.replaying = false }()
	if m.notify != nil {
		m.notify(m.entries[m.cursor])
	}
}

// Reset 丢弃全部历史，以 v 作为唯一快照。
func (m *Manager[T]) Reset(v T) {
	clear(m.entries)
	m.entries = append(m.entries[:0], v)
	m.cursor = 0
	m.replaying = false
}

func (m *Manager[T]) CanUndo() bool { return m.cursor > 0 }

func (m *Manager[T]) CanRedo() bool { return m.cursor < len(m.entries)-1 }

// Current 返回游标处的快照。
func (m *Manager[T]) Current() T { return m.entries[m.cursor] }

// Len 返回缓冲区中的快照数。
func (m *Manager[T]) Len() int { return len(m.entries) }

// Cursor 返回游标位置。
func (m *Manager[T]) Cursor() int { return m.cursor }

// Replaying 报告是否处于回放通知中。
func (m *Manager[T]) Replaying() bool { return m.replaying }
