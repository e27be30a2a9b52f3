package cart

import (
	"context"
	"sync"
)

// MemorySlots 进程内槽位存储，Redis 未启用时使用
type MemorySlots struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemorySlots 创建进程内槽位存储
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{data: make(map[string]string)}
}

// Get 读取槽位
func (m *MemorySlots) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

// Set 写入槽位
func (m *MemorySlots) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete 删除槽位，不存在时不报错
func (m *MemorySlots) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
