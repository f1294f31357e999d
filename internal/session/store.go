package session

import (
	"context"
	"sync"
	"time"
)

// Store 会话键值存储，对应浏览器的 localStorage，按会话 ID 隔离
type Store interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid, key string) error
	Clear(ctx context.Context, sid string) error
}

// MemoryStore 进程内存实现，用于开发环境和测试，空闲会话由 Sweep 清理
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]map[string]string
	touched map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:    make(map[string]map[string]string),
		touched: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Get(_ context.Context, sid, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data[sid]
	if !ok {
		return "", false, nil
	}
	s.touched[sid] = time.Now()
	v, ok := m[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, sid, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[sid] = time.Now()
	m, ok := s.data[sid]
	if !ok {
		m = make(map[string]string)
		s.data[sid] = m
	}
	m[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[sid], key)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sid)
	delete(s.touched, sid)
	return nil
}

// Sweep 删除超过 maxIdle 未访问的会话，返回删除数量
func (s *MemoryStore) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for sid, last := range s.touched {
		if time.Since(last) >= maxIdle {
			delete(s.data, sid)
			delete(s.touched, sid)
			removed++
		}
	}
	return removed
}

// Len 返回会话中的键数量
func (s *MemoryStore) Len(sid string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[sid])
}
