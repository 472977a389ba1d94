package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory 为新会话创建编辑器；owner 决定档案存储的命名空间。
type Factory func(id, owner string) *Editor

// Registry 按会话 ID 管理编辑器，空闲超过 ttl 的会话会被回收。
type Registry struct {
	mu      sync.Mutex
	editors map[string]*Editor
	factory Factory
	ttl     time.Duration
	logger  *slog.Logger
	observe func(active int)
}

func NewRegistry(factory Factory, ttl time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		editors: make(map[string]*Editor),
		factory: factory,
		ttl:     ttl,
		logger:  logger,
	}
}

// SetObserver 注册会话数量变化的回调，在持锁状态下调用。
func (r *Registry) SetObserver(fn func(active int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observe = fn
}

func (r *Registry) changed() {
	if r.observe != nil {
		r.observe(len(r.editors))
	}
}

// Create 以新的 uuid 创建会话；owner 为空时使用会话 ID。
func (r *Registry) Create(owner string) *Editor {
	id := uuid.NewString()
	if owner == "" {
		owner = id
	}
	e := r.factory(id, owner)
	r.mu.Lock()
	r.editors[id] = e
	r.changed()
	r.mu.Unlock()
	return e
}

func (r *Registry) Get(id string) (*Editor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.editors[id]
	return e, ok
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.editors, id)
	r.changed()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.editors)
}

// Evict 回收空闲会话，返回回收数量。
func (r *Registry) Evict(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.editors {
		if now.Sub(e.Touched()) > r.ttl {
			delete(r.editors, id)
			n++
		}
	}
	if n > 0 {
		r.changed()
	}
	return n
}

// Run 周期性回收空闲会话，直到 ctx 结束。
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Evict(now); n > 0 {
				r.logger.Info("evicted idle sessions", slog.Int("count", n))
			}
		}
	}
}
