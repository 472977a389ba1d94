package store

import (
	"context"
	"slices"
	"sync"

	"folio/internal/errcode"
)

// MemoryStore 是进程内存储，quota 为全部档案的总字节上限（0 表示不限）。
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int
}

func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), quota: quota}
}

func (m *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[name]
	if !ok {
		return nil, errcode.Wrap(errcode.ErrProfileNotFound, "profile %q", name)
	}
	return slices.Clone(v), nil
}

func (m *MemoryStore) Put(_ context.Context, name string, value []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		used := len(value)
		for k, v := range m.data {
			if k != name {
				used += len(v)
			}
		}
		if used > m.quota {
			return errcode.Wrap(errcode.ErrStorageQuota, "memory store needs %d bytes, quota %d", used, m.quota)
		}
	}
	m.data[name] = slices.Clone(value)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

func (m *MemoryStore) Keys(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	slices.Sort(out)
	return out, nil
}
